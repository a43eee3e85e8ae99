// Package pathutil holds the slash-path helpers used to turn archive entry
// names into destinations on disk.
package pathutil

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// StripPrefix returns name with prefix removed and reports whether name
// was under prefix.
func StripPrefix(name, prefix string) (string, bool) {
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	return strings.TrimPrefix(name, prefix), true
}

// Parent returns the directory part of a slash-separated relative path,
// or "" when rel has no directory component.
func Parent(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// Base returns the last element of a slash-separated entry name.
func Base(name string) string {
	return path.Base(strings.TrimSuffix(name, "/"))
}

// IsDirName reports whether an entry name denotes a directory.
func IsDirName(name string) bool {
	return strings.HasSuffix(name, "/")
}

// CleanRelative validates and normalizes a slash-separated relative path
// into an OS path. It rejects absolute paths and parent traversal segments.
func CleanRelative(rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("path is empty")
	}

	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." {
		return "", fmt.Errorf("path resolves to current directory")
	}
	if filepath.IsAbs(clean) || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("absolute paths are not allowed: %q", rel)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("parent traversal is not allowed: %q", rel)
	}
	return clean, nil
}

// Join places a slash-separated relative path under root and verifies the
// result stays inside root.
func Join(root, rel string) (string, error) {
	cleanRel, err := CleanRelative(rel)
	if err != nil {
		return "", err
	}
	return ensureUnder(root, filepath.Join(root, cleanRel))
}

func ensureUnder(root, candidate string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	candAbs, err := filepath.Abs(candidate)
	if err != nil {
		return "", fmt.Errorf("resolve candidate: %w", err)
	}

	rel, err := filepath.Rel(rootAbs, candAbs)
	if err != nil {
		return "", fmt.Errorf("compare paths: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes root: %q", candidate)
	}
	return candAbs, nil
}
