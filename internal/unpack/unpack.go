// Package unpack rebuilds a source project layout from a Spring Boot
// executable jar or war.
package unpack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BadgerOps/bootunpack/internal/filter"
	"github.com/BadgerOps/bootunpack/internal/manifest"
	"github.com/klauspost/compress/zip"
)

// Options configures one unpack.
type Options struct {
	ArchivePath string
	ProjectDir  string
	Include     string // colon-separated package prefixes
	Exclude     string

	// OnEntry, when set, is called with every entry's routing decision.
	OnEntry func(name string, route Route)
}

// Report summarizes a completed unpack or inspection.
type Report struct {
	ArchivePath   string
	Layout        Layout
	Libraries     int
	Classes       int
	Quarantined   int
	Resources     int
	Directories   int
	Ignored       int
	Overwritten   int
	BytesWritten  int64
	ManifestFound bool
	Manifest      manifest.Fields
	Candidates    []string
	Descriptor    Resolution
	Warnings      []string
	Duration      time.Duration
}

// Unpacker reconstructs projects from archives.
type Unpacker struct {
	template TemplateSource
	logger   *slog.Logger
}

// New creates an Unpacker. A nil template uses the embedded one.
func New(template TemplateSource, logger *slog.Logger) *Unpacker {
	if template == nil {
		template = EmbeddedTemplate{}
	}
	return &Unpacker{template: template, logger: logger}
}

// Unpack scans the archive once, writing libraries, classes and resources
// under opts.ProjectDir, then writes exactly one pom.xml. The project
// directory must already exist; see PrepareProjectDir.
func (u *Unpacker) Unpack(ctx context.Context, opts Options) (*Report, error) {
	return u.run(ctx, opts, false)
}

// Inspect classifies the archive and resolves the descriptor without
// writing anything.
func (u *Unpacker) Inspect(ctx context.Context, opts Options) (*Report, error) {
	return u.run(ctx, opts, true)
}

func (u *Unpacker) run(ctx context.Context, opts Options, dryRun bool) (*Report, error) {
	startTime := time.Now()
	layout := NewLayout(opts.ProjectDir)
	report := &Report{ArchivePath: opts.ArchivePath, Layout: layout}

	filters := filter.NewSet(opts.Include, opts.Exclude)
	u.logger.Info("unpack starting",
		"archive", opts.ArchivePath,
		"project", opts.ProjectDir,
		"dry_run", dryRun,
		"filters", filters.Active(),
	)

	if !dryRun {
		if err := layout.create(); err != nil {
			return nil, err
		}
	}

	rc, err := zip.OpenReader(opts.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", opts.ArchivePath, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	s := newScanState(layout, filters, report, u.logger)
	s.dryRun = dryRun
	s.onEntry = opts.OnEntry

	if err := s.scan(ctx, rc.File); err != nil {
		report.Duration = time.Since(startTime)
		return report, err
	}

	report.Manifest = s.attrs.Resolve()
	report.Candidates = s.candidates
	if !report.ManifestFound {
		u.logger.Warn("archive has no manifest, using defaults", "entry", manifest.Path)
	} else if len(report.Manifest.Defaulted) > 0 {
		u.logger.Warn("manifest attributes missing, using defaults", "attributes", report.Manifest.Defaulted)
	}

	res := Resolve(s.candidates, report.Manifest)
	report.Descriptor = res
	switch {
	case res.Synthesized() && len(s.candidates) > 0:
		s.warn("no descriptor candidate matches the start class, synthesizing",
			"candidates", len(s.candidates), "start_class", report.Manifest.StartClass)
	case !res.Synthesized() && len(s.candidates) > 1:
		s.warn("multiple descriptor candidates, selected by heuristic",
			"entry", res.Entry, "rule", string(res.Rule))
	}

	if !dryRun {
		if err := u.writeDescriptor(s, res, report.Manifest); err != nil {
			report.Duration = time.Since(startTime)
			return report, err
		}
	}

	report.Duration = time.Since(startTime)
	u.logger.Info("unpack completed",
		"libraries", report.Libraries,
		"classes", report.Classes,
		"quarantined", report.Quarantined,
		"resources", report.Resources,
		"descriptor_rule", string(res.Rule),
		"duration", report.Duration,
	)
	return report, nil
}

// writeDescriptor materializes the resolver's decision as pom.xml.
func (u *Unpacker) writeDescriptor(s *scanState, res Resolution, fields manifest.Fields) error {
	dest := s.layout.Descriptor
	if !res.Synthesized() {
		f, ok := s.candidateFiles[res.Entry]
		if !ok {
			return fmt.Errorf("descriptor candidate %s not found in archive", res.Entry)
		}
		u.logger.Info("copying descriptor", "entry", res.Entry, "rule", string(res.Rule))
		if _, err := extractFile(f, dest); err != nil {
			return err
		}
		return nil
	}

	u.logger.Info("synthesizing descriptor", "group_id", res.GroupID, "artifact_id", res.ArtifactID)
	tmpl, err := u.template.Load()
	if err != nil {
		return fmt.Errorf("loading descriptor template: %w", err)
	}
	if err := os.WriteFile(dest, RenderDescriptor(tmpl, res, fields), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
