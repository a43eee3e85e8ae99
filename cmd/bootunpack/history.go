package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BadgerOps/bootunpack/internal/store"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historyArchive string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous unpack runs",
		Long: `List unpack runs recorded in the history database, newest first.
History is recorded when history.enabled is set in the config.`,
		Example: `  bootunpack history
  bootunpack history --archive ./app.jar --limit 5
  bootunpack history show 12`,
		Args: cobra.NoArgs,
		RunE: historyListRun,
	}

	cmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to show")
	cmd.Flags().StringVar(&historyArchive, "archive", "", "only show runs of this archive")

	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show ID",
		Short:   "Show one unpack run and its descriptor candidates",
		Example: `  bootunpack history show 12`,
		Args:    cobra.ExactArgs(1),
		RunE:    historyShowRun,
	}
}

func historyListRun(cmd *cobra.Command, args []string) error {
	if globalStore == nil {
		return fmt.Errorf("unpack history is not available (history.enabled is off or the database could not be opened)")
	}

	archive := historyArchive
	if archive != "" {
		abs, err := filepath.Abs(archive)
		if err != nil {
			return fmt.Errorf("resolving archive path: %w", err)
		}
		archive = abs
	}

	runs, err := globalStore.ListUnpackRuns(archive, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list unpack runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No unpack runs recorded.")
		return nil
	}

	fmt.Printf("%-6s %-10s %-22s %8s %8s %-40s\n", "ID", "Status", "Descriptor", "Libs", "Classes", "Archive")
	for _, run := range runs {
		fmt.Printf("%-6d %-10s %-22s %8d %8d %-40s\n",
			run.ID,
			run.Status,
			run.DescriptorRule,
			run.Libraries,
			run.Classes,
			filepath.Base(run.ArchivePath),
		)
	}
	return nil
}

func historyShowRun(cmd *cobra.Command, args []string) error {
	if globalStore == nil {
		return fmt.Errorf("unpack history is not available (history.enabled is off or the database could not be opened)")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	run, err := globalStore.GetUnpackRun(id)
	if err != nil {
		return fmt.Errorf("failed to load unpack run %d: %w", id, err)
	}
	candidates, err := globalStore.ListCandidates(id)
	if err != nil {
		return fmt.Errorf("failed to load descriptor candidates: %w", err)
	}

	printUnpackRun(run, candidates)
	return nil
}

func printUnpackRun(run *store.UnpackRun, candidates []store.DescriptorCandidate) {
	fmt.Printf("Run %d (%s)\n", run.ID, run.Status)
	fmt.Printf("  Archive: %s\n", run.ArchivePath)
	if run.ArchiveSHA256 != "" {
		fmt.Printf("  SHA-256: %s\n", run.ArchiveSHA256)
	}
	fmt.Printf("  Project: %s\n", run.ProjectDir)
	fmt.Printf("  Start class: %s\n", run.StartClass)
	fmt.Printf("  Decompiler: %s\n", run.Decompiler)
	fmt.Printf("  Libraries: %d, classes: %d, filtered: %d, resources: %d\n",
		run.Libraries, run.Classes, run.Quarantined, run.Resources)
	fmt.Printf("  Written: %s\n", humanize.Bytes(uint64(run.BytesWritten)))
	fmt.Printf("  Started: %s (%s)\n", run.StartTime.Format(time.RFC3339), humanize.Time(run.StartTime))
	if !run.EndTime.IsZero() {
		fmt.Printf("  Duration: %s\n", run.EndTime.Sub(run.StartTime).Round(time.Millisecond))
	}
	if run.ErrorMessage != "" {
		fmt.Printf("  Error: %s\n", run.ErrorMessage)
	}

	if run.DescriptorRule == "synthesized" {
		fmt.Println("  pom.xml: synthesized")
	} else if run.DescriptorEntry != "" {
		fmt.Printf("  pom.xml: %s (%s)\n", run.DescriptorEntry, run.DescriptorRule)
	}
	if len(candidates) > 0 {
		fmt.Println("  Candidates:")
		for _, c := range candidates {
			marker := " "
			if c.Selected {
				marker = "*"
			}
			fmt.Printf("    %s %s\n", marker, c.Entry)
		}
	}
}
