package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BadgerOps/bootunpack/internal/decompile"
	"github.com/BadgerOps/bootunpack/internal/store"
	"github.com/BadgerOps/bootunpack/internal/unpack"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	unpackOverwrite    bool
	unpackDecompiler   string
	unpackOutput       string
	unpackInclude      string
	unpackExclude      string
	unpackCleanClasses bool
	unpackArchive      bool
	unpackFormat       string
)

func newUnpackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack JAR",
		Short: "Rebuild a project directory from a Spring Boot archive",
		Long: `Unpack a Spring Boot jar or war into a project directory named after the
archive (app-0.0.1.jar becomes app-0.0.1/). Libraries are flattened into lib/,
application classes are restored under src/main/java/ and decompiled in place,
resources go to src/main/resources/, and exactly one pom.xml is written.

Use --include / --exclude with colon-separated package prefixes to keep
classes away from the decompiler; filtered classes are placed in classes/.`,
		Example: `  bootunpack unpack app.jar
  bootunpack unpack app.jar -o -d cfr
  bootunpack unpack app.jar --exclude com.acme.generated:com.acme.proto
  bootunpack unpack app.jar --output /work --clean-classes --archive
  bootunpack unpack app.jar --archive --archive-format xz`,
		Args: cobra.ExactArgs(1),
		RunE: unpackRun,
	}

	cmd.Flags().BoolVarP(&unpackOverwrite, "overwrite", "o", false, "overwrite the project dir if it already exists")
	cmd.Flags().StringVarP(&unpackDecompiler, "decompiler", "d", "", "class file decompiler (fernflower, cfr, none)")
	cmd.Flags().StringVar(&unpackOutput, "output", "", "parent directory for the project (default: next to the archive)")
	cmd.Flags().StringVar(&unpackInclude, "include", "", "colon-separated package prefixes to decompile")
	cmd.Flags().StringVar(&unpackExclude, "exclude", "", "colon-separated package prefixes to keep out of decompilation")
	cmd.Flags().BoolVar(&unpackCleanClasses, "clean-classes", false, "delete .class files after a successful decompile")
	cmd.Flags().BoolVar(&unpackArchive, "archive", false, "also write <project>.tar.zst with a sha256 sidecar")
	cmd.Flags().StringVar(&unpackFormat, "archive-format", "", "bundle compression for --archive (zst or xz)")

	return cmd
}

// unpackSettings merges command-line flags over config defaults.
type unpackSettings struct {
	archivePath  string
	projectDir   string
	include      string
	exclude      string
	tool         decompile.Tool
	cleanClasses bool
	archive      bool
	format       unpack.BundleFormat
}

func resolveUnpackSettings(cmd *cobra.Command, archivePath string) (*unpackSettings, error) {
	s := &unpackSettings{
		archivePath:  archivePath,
		include:      globalCfg.Unpack.Include,
		exclude:      globalCfg.Unpack.Exclude,
		cleanClasses: globalCfg.Unpack.CleanClasses || unpackCleanClasses,
		archive:      globalCfg.Unpack.Archive || unpackArchive,
	}
	if cmd.Flags().Changed("include") {
		s.include = unpackInclude
	}
	if cmd.Flags().Changed("exclude") {
		s.exclude = unpackExclude
	}

	name := globalCfg.Decompiler.Default
	if unpackDecompiler != "" {
		name = unpackDecompiler
	}
	tool, err := decompile.ParseTool(name)
	if err != nil {
		return nil, err
	}
	s.tool = tool

	formatName := globalCfg.Unpack.ArchiveFormat
	if unpackFormat != "" {
		formatName = unpackFormat
	}
	format, err := unpack.ParseBundleFormat(formatName)
	if err != nil {
		return nil, err
	}
	s.format = format

	output := globalCfg.Unpack.OutputDir
	if unpackOutput != "" {
		output = unpackOutput
	}
	s.projectDir = unpack.ProjectDirFor(archivePath, output)
	return s, nil
}

func unpackRun(cmd *cobra.Command, args []string) error {
	if globalUnpacker == nil {
		return fmt.Errorf("unpacker not initialized")
	}

	archivePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving archive path: %w", err)
	}
	info, err := os.Stat(archivePath)
	if err != nil || !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a readable file", archivePath)
	}

	settings, err := resolveUnpackSettings(cmd, archivePath)
	if err != nil {
		return err
	}

	if err := unpack.PrepareProjectDir(settings.projectDir, unpackOverwrite); err != nil {
		if errors.Is(err, unpack.ErrProjectExists) {
			return fmt.Errorf("%w (use --overwrite to replace it)", err)
		}
		return err
	}

	run := startHistory(settings)

	if !quiet {
		fmt.Printf("Unpacking %s...\n", archivePath)
		fmt.Printf("  Project: %s\n", settings.projectDir)
		fmt.Printf("  Decompiler: %s\n", settings.tool)
		fmt.Println()
	}

	report, err := globalUnpacker.Unpack(cmd.Context(), unpack.Options{
		ArchivePath: archivePath,
		ProjectDir:  settings.projectDir,
		Include:     settings.include,
		Exclude:     settings.exclude,
	})
	if err != nil {
		finishHistory(run, report, err)
		return fmt.Errorf("unpack failed: %w", err)
	}

	decompiled := false
	if settings.tool != decompile.None && report.Classes > 0 {
		err := globalRunner.Decompile(cmd.Context(), settings.tool, report.Layout.Classes)
		switch {
		case err == nil:
			decompiled = true
		case errors.Is(err, decompile.ErrUnavailable):
			logger.Warn("skipping decompilation", "error", err)
		default:
			logger.Warn("decompilation failed, class files kept", "error", err)
		}
	}

	if settings.cleanClasses && decompiled {
		removed, err := decompile.RemoveClassFiles(report.Layout.Classes, report.Layout.Quarantine)
		if err != nil {
			logger.Warn("removing class files failed", "error", err)
		} else {
			logger.Info("class files removed", "count", removed)
		}
	}

	var bundle *unpack.BundleInfo
	if settings.archive {
		bundle, err = unpack.Bundle(cmd.Context(), settings.projectDir, settings.format)
		if err != nil {
			finishHistory(run, report, err)
			return fmt.Errorf("bundling project: %w", err)
		}
	}

	finishHistory(run, report, nil)

	if !quiet {
		printUnpackReport(report)
		if decompiled {
			fmt.Printf("  Decompiled: %s\n", report.Layout.Classes)
		}
		if bundle != nil {
			fmt.Printf("  Bundle: %s (%s)\n", bundle.Path, humanize.Bytes(uint64(bundle.Size)))
		}
	}
	return nil
}

func printUnpackReport(report *unpack.Report) {
	fmt.Printf("Unpack results:\n")
	fmt.Printf("  Libraries: %d\n", report.Libraries)
	fmt.Printf("  Classes: %d\n", report.Classes)
	if report.Quarantined > 0 {
		fmt.Printf("  Filtered classes: %d (%s)\n", report.Quarantined, report.Layout.Quarantine)
	}
	fmt.Printf("  Resources: %d\n", report.Resources)
	fmt.Printf("  Written: %s\n", humanize.Bytes(uint64(report.BytesWritten)))
	fmt.Printf("  Start class: %s\n", report.Manifest.StartClass)
	printDescriptor(report)
	fmt.Printf("  Duration: %s\n", report.Duration.Round(time.Millisecond))
	if len(report.Warnings) > 0 {
		fmt.Println("  Warnings:")
		for _, w := range report.Warnings {
			fmt.Printf("    - %s\n", w)
		}
	}
}

func printDescriptor(report *unpack.Report) {
	res := report.Descriptor
	if res.Synthesized() {
		fmt.Printf("  pom.xml: synthesized (groupId=%s, artifactId=%s)\n", res.GroupID, res.ArtifactID)
		return
	}
	fmt.Printf("  pom.xml: %s (%s, %d candidate(s))\n", res.Entry, res.Rule, len(report.Candidates))
}

// startHistory records a running unpack. It returns nil when history is
// disabled or the insert fails.
func startHistory(s *unpackSettings) *store.UnpackRun {
	if globalStore == nil {
		return nil
	}
	run := &store.UnpackRun{
		ArchivePath: s.archivePath,
		ProjectDir:  s.projectDir,
		Decompiler:  string(s.tool),
		Status:      "running",
		StartTime:   time.Now(),
	}
	if hash, _, err := unpack.HashFile(s.archivePath); err == nil {
		run.ArchiveSHA256 = hash
	}
	if err := globalStore.CreateUnpackRun(run); err != nil {
		logger.Warn("failed to record unpack run", "error", err)
		return nil
	}
	return run
}

func finishHistory(run *store.UnpackRun, report *unpack.Report, runErr error) {
	if run == nil || globalStore == nil {
		return
	}
	run.EndTime = time.Now()
	run.Status = "completed"
	if runErr != nil {
		run.Status = "failed"
		run.ErrorMessage = runErr.Error()
	}
	if report != nil {
		run.StartClass = report.Manifest.StartClass
		run.DescriptorRule = string(report.Descriptor.Rule)
		run.DescriptorEntry = report.Descriptor.Entry
		run.Libraries = report.Libraries
		run.Classes = report.Classes
		run.Quarantined = report.Quarantined
		run.Resources = report.Resources
		run.BytesWritten = report.BytesWritten
	}
	if err := globalStore.UpdateUnpackRun(run); err != nil {
		logger.Warn("failed to update unpack run", "id", run.ID, "error", err)
	}
	if report != nil && len(report.Candidates) > 0 {
		if err := globalStore.AddCandidates(run.ID, report.Candidates, report.Descriptor.Entry); err != nil {
			logger.Warn("failed to record descriptor candidates", "id", run.ID, "error", err)
		}
	}
}
