package unpack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrProjectExists is returned when the destination tree already exists and
// overwrite was not requested.
var ErrProjectExists = errors.New("project directory already exists")

// Layout names the directories of a reconstructed project.
type Layout struct {
	Root       string
	Lib        string
	Classes    string // handed to the decompiler
	Resources  string
	Quarantine string // filtered-out classes, never decompiled
	Descriptor string
}

// NewLayout returns the Maven-style layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{
		Root:       root,
		Lib:        filepath.Join(root, "lib"),
		Classes:    filepath.Join(root, "src", "main", "java"),
		Resources:  filepath.Join(root, "src", "main", "resources"),
		Quarantine: filepath.Join(root, "classes"),
		Descriptor: filepath.Join(root, "pom.xml"),
	}
}

// create makes the fixed output directories. The quarantine directory is
// created lazily, only when a class is routed there.
func (l Layout) create() error {
	for _, dir := range []string{l.Lib, l.Classes, l.Resources} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// ProjectDirFor derives the project directory for an archive: a sibling of
// the archive named after it without its extension. A non-empty outputDir
// replaces the archive's parent directory.
func ProjectDirFor(archivePath, outputDir string) string {
	name := filepath.Base(archivePath)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	parent := filepath.Dir(archivePath)
	if outputDir != "" {
		parent = outputDir
	}
	return filepath.Join(parent, name)
}

// PrepareProjectDir creates root as a fresh directory. An existing root is
// removed when overwrite is set, otherwise ErrProjectExists is returned.
func PrepareProjectDir(root string, overwrite bool) error {
	if _, err := os.Stat(root); err == nil {
		if !overwrite {
			return fmt.Errorf("%w: %s", ErrProjectExists, root)
		}
		if err := os.RemoveAll(root); err != nil {
			return fmt.Errorf("removing existing project dir: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("checking project dir: %w", err)
	}

	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating project dir: %w", err)
	}
	return nil
}
