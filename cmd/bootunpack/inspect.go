package main

import (
	"fmt"
	"path/filepath"

	"github.com/BadgerOps/bootunpack/internal/unpack"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	inspectEntries bool
	inspectInclude string
	inspectExclude string
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect JAR",
		Short: "Preview how an archive would be unpacked",
		Long: `Classify every entry of a Spring Boot archive and resolve its pom.xml
without writing anything. Useful to check which descriptor will be chosen
and which classes a filter would keep away from the decompiler.`,
		Example: `  bootunpack inspect app.jar
  bootunpack inspect app.jar --entries --exclude com.acme.generated`,
		Args: cobra.ExactArgs(1),
		RunE: inspectRun,
	}

	cmd.Flags().BoolVar(&inspectEntries, "entries", false, "print the destination of every entry")
	cmd.Flags().StringVar(&inspectInclude, "include", "", "colon-separated package prefixes to decompile")
	cmd.Flags().StringVar(&inspectExclude, "exclude", "", "colon-separated package prefixes to keep out of decompilation")

	return cmd
}

func inspectRun(cmd *cobra.Command, args []string) error {
	if globalUnpacker == nil {
		return fmt.Errorf("unpacker not initialized")
	}

	archivePath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving archive path: %w", err)
	}

	include, exclude := inspectInclude, inspectExclude
	if globalCfg != nil {
		if include == "" {
			include = globalCfg.Unpack.Include
		}
		if exclude == "" {
			exclude = globalCfg.Unpack.Exclude
		}
	}

	opts := unpack.Options{
		ArchivePath: archivePath,
		ProjectDir:  unpack.ProjectDirFor(archivePath, ""),
		Include:     include,
		Exclude:     exclude,
	}
	if inspectEntries {
		fmt.Printf("%-12s %s\n", "Kind", "Entry")
		opts.OnEntry = printEntryRoute
	}

	report, err := globalUnpacker.Inspect(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	if inspectEntries {
		fmt.Println()
	}
	printInspectReport(report)
	return nil
}

func printEntryRoute(name string, route unpack.Route) {
	switch route.Kind {
	case unpack.KindIgnored:
		return
	case unpack.KindClass, unpack.KindResource, unpack.KindLibrary:
		fmt.Printf("%-12s %s -> %s\n", route.Kind, name, route.Rel)
	default:
		fmt.Printf("%-12s %s\n", route.Kind, name)
	}
}

func printInspectReport(report *unpack.Report) {
	fmt.Printf("Archive: %s\n", report.ArchivePath)
	fmt.Println()

	fmt.Printf("%-20s %10s\n", "Destination", "Entries")
	fmt.Printf("%-20s %10d\n", "lib/", report.Libraries)
	fmt.Printf("%-20s %10d\n", "src/main/java/", report.Classes)
	fmt.Printf("%-20s %10d\n", "classes/", report.Quarantined)
	fmt.Printf("%-20s %10d\n", "src/main/resources/", report.Resources)
	fmt.Printf("%-20s %10d\n", "ignored", report.Ignored)
	fmt.Printf("Uncompressed size: %s\n", humanize.Bytes(uint64(report.BytesWritten)))
	fmt.Println()

	fmt.Println("Manifest:")
	if !report.ManifestFound {
		fmt.Println("  (not found, using defaults)")
	}
	fmt.Printf("  Start-Class: %s\n", report.Manifest.StartClass)
	fmt.Printf("  Spring-Boot-Version: %s\n", report.Manifest.SpringBootVersion)
	fmt.Printf("  Build-Jdk-Spec: %s\n", report.Manifest.JavaVersion)
	if report.Manifest.ImplementationTitle != "" {
		fmt.Printf("  Implementation-Title: %s\n", report.Manifest.ImplementationTitle)
	}
	if len(report.Manifest.Defaulted) > 0 {
		fmt.Printf("  Defaulted: %v\n", report.Manifest.Defaulted)
	}
	fmt.Println()

	fmt.Printf("Descriptor candidates: %d\n", len(report.Candidates))
	for _, c := range report.Candidates {
		marker := " "
		if c == report.Descriptor.Entry {
			marker = "*"
		}
		fmt.Printf("  %s %s\n", marker, c)
	}
	printDescriptor(report)
}
