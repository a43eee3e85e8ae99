// Package manifest reads the main section of a jar MANIFEST.MF and exposes
// the attributes the project reconstruction needs, each with a fallback.
package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Path is the archive entry holding the manifest.
const Path = "META-INF/MANIFEST.MF"

// Recognized attribute names.
const (
	StartClass          = "Start-Class"
	SpringBootVersion   = "Spring-Boot-Version"
	BuildJdkSpec        = "Build-Jdk-Spec"
	ImplementationTitle = "Implementation-Title"
)

// Defaults applied when a recognized attribute is absent.
var Defaults = map[string]string{
	StartClass:          "com.example.demo.DemoApplication",
	SpringBootVersion:   "2.7.11",
	BuildJdkSpec:        "1.8",
	ImplementationTitle: "",
}

// Attributes is the main section of a manifest. Names are matched
// case-insensitively, as the jar format requires.
type Attributes map[string]string

// Parse reads the main section of a manifest. Parsing stops at the first
// blank line; per-entry sections are not needed here.
func Parse(data []byte) (Attributes, error) {
	attrs := make(Attributes)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	var lastKey string
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" {
			break
		}
		// Continuation lines start with a single space.
		if strings.HasPrefix(line, " ") {
			if lastKey == "" {
				return nil, fmt.Errorf("line %d: continuation without header", lineNo)
			}
			attrs[lastKey] += line[1:]
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || !validName(name) {
			return nil, fmt.Errorf("line %d: malformed header %q", lineNo, line)
		}
		lastKey = strings.ToLower(name)
		attrs[lastKey] = strings.TrimPrefix(value, " ")
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return attrs, nil
}

func validName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// Lookup returns the raw value of an attribute.
func (a Attributes) Lookup(name string) (string, bool) {
	if a == nil {
		return "", false
	}
	v, ok := a[strings.ToLower(name)]
	return v, ok
}

// ValueOr returns the attribute value, or def when the attribute is absent
// or blank. The boolean reports whether def was used.
func (a Attributes) ValueOr(name, def string) (string, bool) {
	if v, ok := a.Lookup(name); ok {
		if v = strings.TrimSpace(v); v != "" {
			return v, false
		}
	}
	return def, true
}

// Value returns a recognized attribute with its documented default.
func (a Attributes) Value(name string) (string, bool) {
	return a.ValueOr(name, Defaults[name])
}

// Fields are the resolved values the descriptor resolver consumes.
type Fields struct {
	StartClass          string
	SpringBootVersion   string
	JavaVersion         string
	ImplementationTitle string

	// Defaulted lists the attribute names that fell back to defaults.
	Defaulted []string
}

// Resolve applies defaults to every recognized attribute. A nil Attributes
// (no manifest in the archive) yields all defaults.
func (a Attributes) Resolve() Fields {
	var f Fields
	pick := func(name string) string {
		v, defaulted := a.Value(name)
		if defaulted {
			f.Defaulted = append(f.Defaulted, name)
		}
		return v
	}
	f.StartClass = pick(StartClass)
	f.SpringBootVersion = pick(SpringBootVersion)
	f.JavaVersion = pick(BuildJdkSpec)
	f.ImplementationTitle = pick(ImplementationTitle)
	return f
}
