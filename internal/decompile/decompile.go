// Package decompile runs an external Java decompiler over a restored class
// tree and removes the compiled classes afterwards.
package decompile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Tool identifies a supported decompiler.
type Tool string

const (
	FernFlower Tool = "fernflower"
	CFR        Tool = "cfr"
	None       Tool = "none"
)

// ErrUnavailable is returned when the java binary or decompiler jar cannot
// be found. Callers treat it as "skip decompilation".
var ErrUnavailable = errors.New("decompiler unavailable")

// ParseTool maps a user-supplied name to a Tool.
func ParseTool(name string) (Tool, error) {
	switch Tool(strings.ToLower(strings.TrimSpace(name))) {
	case FernFlower, "quiltflower", "vineflower":
		return FernFlower, nil
	case CFR:
		return CFR, nil
	case None, "":
		return None, nil
	default:
		return "", fmt.Errorf("unknown decompiler %q (want fernflower, cfr or none)", name)
	}
}

// Settings locate the decompiler jars and the JVM used to run them.
type Settings struct {
	JavaBinary    string
	FernFlowerJar string
	CFRJar        string
	ExtraArgs     []string
}

// Runner invokes a decompiler jar through java.
type Runner struct {
	settings Settings
	logger   *slog.Logger
}

// NewRunner creates a Runner.
func NewRunner(settings Settings, logger *slog.Logger) *Runner {
	if settings.JavaBinary == "" {
		settings.JavaBinary = "java"
	}
	return &Runner{settings: settings, logger: logger}
}

// Decompile rewrites the class files under classDir into Java sources in
// place. It returns ErrUnavailable when the tool cannot be run.
func (r *Runner) Decompile(ctx context.Context, tool Tool, classDir string) error {
	if tool == None {
		return nil
	}

	javaPath, err := exec.LookPath(r.settings.JavaBinary)
	if err != nil {
		return fmt.Errorf("%w: java binary %q not found", ErrUnavailable, r.settings.JavaBinary)
	}

	args, err := r.args(tool, classDir)
	if err != nil {
		return err
	}

	r.logger.Info("decompiling class files", "tool", string(tool), "dir", classDir)
	cmd := exec.CommandContext(ctx, javaPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Warn("decompiler failed",
			"tool", string(tool), "dir", classDir, "error", err, "output", string(output))
		return fmt.Errorf("%s failed on %s: %w", tool, classDir, err)
	}

	r.logger.Info("decompiler completed", "tool", string(tool), "dir", classDir)
	return nil
}

// args builds the java command line for tool.
func (r *Runner) args(tool Tool, classDir string) ([]string, error) {
	var jar string
	switch tool {
	case FernFlower:
		jar = r.settings.FernFlowerJar
	case CFR:
		jar = r.settings.CFRJar
	default:
		return nil, fmt.Errorf("unsupported decompiler %q", tool)
	}
	if jar == "" {
		return nil, fmt.Errorf("%w: no jar configured for %s", ErrUnavailable, tool)
	}
	if _, err := os.Stat(jar); err != nil {
		return nil, fmt.Errorf("%w: %s jar: %v", ErrUnavailable, tool, err)
	}

	args := []string{"-jar", jar}
	args = append(args, r.settings.ExtraArgs...)

	switch tool {
	case FernFlower:
		// Source and destination are the same tree.
		args = append(args, classDir, classDir)
	case CFR:
		classes, err := ClassFiles(classDir)
		if err != nil {
			return nil, err
		}
		if len(classes) == 0 {
			return nil, fmt.Errorf("no class files under %s", classDir)
		}
		args = append(args, classes...)
		args = append(args, "--outputpath", classDir)
	}
	return args, nil
}

// ClassFiles lists the .class files under root in lexical order.
func ClassFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".class") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing class files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// RemoveClassFiles deletes .class files under root, leaving any directory
// listed in skip untouched. It returns the number of files removed.
func RemoveClassFiles(root string, skip ...string) (int, error) {
	skipped := make(map[string]bool, len(skip))
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped[abs] = true
		}
	}

	removed := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, err := filepath.Abs(path); err == nil && skipped[abs] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".class") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		removed++
		return nil
	})
	return removed, err
}
