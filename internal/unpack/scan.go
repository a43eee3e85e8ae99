package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BadgerOps/bootunpack/internal/filter"
	"github.com/BadgerOps/bootunpack/internal/manifest"
	"github.com/BadgerOps/bootunpack/internal/pathutil"
	"github.com/klauspost/compress/zip"
)

// maxManifestSize bounds how much of MANIFEST.MF is read into memory.
const maxManifestSize = 4 << 20

var errEntryTooLarge = errors.New("entry too large")

// scanState is owned by a single pass over one archive.
type scanState struct {
	layout  Layout
	filters filter.Set
	dryRun  bool
	logger  *slog.Logger
	onEntry func(name string, route Route)

	attrs          manifest.Attributes
	candidates     []string
	candidateFiles map[string]*zip.File
	written        map[string]string // destination -> entry name
	report         *Report
}

type entryHandler func(s *scanState, f *zip.File, route Route) error

var handlers = map[EntryKind]entryHandler{
	KindDescriptor: (*scanState).handleDescriptor,
	KindManifest:   (*scanState).handleManifest,
	KindLibrary:    (*scanState).handleLibrary,
	KindClass:      (*scanState).handleClass,
	KindResource:   (*scanState).handleResource,
}

func newScanState(layout Layout, filters filter.Set, report *Report, logger *slog.Logger) *scanState {
	return &scanState{
		layout:         layout,
		filters:        filters,
		logger:         logger,
		candidateFiles: make(map[string]*zip.File),
		written:        make(map[string]string),
		report:         report,
	}
}

// scan routes every entry in archive order.
func (s *scanState) scan(ctx context.Context, files []*zip.File) error {
	for _, f := range files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		isDir := f.FileInfo().IsDir()
		route := Classify(f.Name, isDir)
		if s.onEntry != nil {
			s.onEntry(f.Name, route)
		}

		h, ok := handlers[route.Kind]
		if !ok {
			if isDir || pathutil.IsDirName(f.Name) {
				s.report.Directories++
			} else {
				s.report.Ignored++
			}
			continue
		}
		if err := h(s, f, route); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanState) handleDescriptor(f *zip.File, route Route) error {
	if _, dup := s.candidateFiles[f.Name]; dup {
		s.warn("duplicate descriptor candidate, later entry wins", "entry", f.Name)
	} else {
		s.candidates = append(s.candidates, f.Name)
	}
	s.candidateFiles[f.Name] = f
	s.logger.Debug("descriptor candidate", "entry", f.Name)
	return nil
}

func (s *scanState) handleManifest(f *zip.File, route Route) error {
	data, err := readEntry(f, maxManifestSize)
	if errors.Is(err, errEntryTooLarge) {
		s.report.ManifestFound = true
		s.warn("oversized manifest, using defaults", "entry", f.Name, "limit", maxManifestSize)
		s.attrs = nil
		return nil
	}
	if err != nil {
		return err
	}

	s.report.ManifestFound = true
	attrs, err := manifest.Parse(data)
	if err != nil {
		s.warn("malformed manifest, using defaults", "entry", f.Name, "error", err)
		s.attrs = nil
		return nil
	}
	s.attrs = attrs
	return nil
}

func (s *scanState) handleLibrary(f *zip.File, route Route) error {
	if err := s.copyTo(f, s.layout.Lib, route.Rel); err != nil {
		return err
	}
	s.report.Libraries++
	return nil
}

func (s *scanState) handleClass(f *zip.File, route Route) error {
	root := s.layout.Classes
	quarantined := s.filters.Quarantined(route.Rel)
	if quarantined {
		root = s.layout.Quarantine
	}
	if err := s.copyTo(f, root, route.Rel); err != nil {
		return err
	}
	if quarantined {
		s.report.Quarantined++
	} else {
		s.report.Classes++
	}
	return nil
}

func (s *scanState) handleResource(f *zip.File, route Route) error {
	if err := s.copyTo(f, s.layout.Resources, route.Rel); err != nil {
		return err
	}
	s.report.Resources++
	return nil
}

// copyTo writes the entry's bytes to rel under root, creating parents.
func (s *scanState) copyTo(f *zip.File, root, rel string) error {
	dest, err := pathutil.Join(root, rel)
	if err != nil {
		return fmt.Errorf("unsafe entry %s: %w", f.Name, err)
	}
	if prev, ok := s.written[dest]; ok {
		s.warn("destination written twice, later entry wins", "entry", f.Name, "previous", prev, "dest", dest)
		s.report.Overwritten++
	}
	s.written[dest] = f.Name

	if s.dryRun {
		s.report.BytesWritten += int64(f.UncompressedSize64)
		return nil
	}

	n, err := extractFile(f, dest)
	if err != nil {
		return err
	}
	s.report.BytesWritten += n
	s.logger.Debug("entry extracted", "entry", f.Name, "dest", dest, "bytes", n)
	return nil
}

func (s *scanState) warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
	s.report.Warnings = append(s.report.Warnings, formatWarning(msg, args...))
}

func formatWarning(msg string, args ...any) string {
	for i := 0; i+1 < len(args); i += 2 {
		msg += fmt.Sprintf(" %v=%v", args[i], args[i+1])
	}
	return msg
}

// extractFile copies one entry to dest. Returns bytes written.
func extractFile(f *zip.File, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	out, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("creating file %s: %w", dest, err)
	}

	n, err := io.Copy(out, rc)
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	return n, nil
}

// readEntry reads a whole entry, refusing entries larger than limit.
func readEntry(f *zip.File, limit int64) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening entry %s: %w", f.Name, err)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(rc, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading entry %s: %w", f.Name, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", errEntryTooLarge, f.Name, limit)
	}
	return data, nil
}
