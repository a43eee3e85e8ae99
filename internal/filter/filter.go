// Package filter compiles package-prefix lists into predicates over class
// paths relative to the bundled classes directory.
package filter

import "strings"

// Predicate matches class paths such as "com/acme/App.class".
type Predicate struct {
	prefixes []string
}

// Compile turns a colon-separated list of dotted package prefixes
// ("com.acme:org.example.util") into a predicate. An empty list compiles to
// nil, meaning "not configured".
func Compile(list string) *Predicate {
	var prefixes []string
	for _, p := range strings.Split(list, ":") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		prefixes = append(prefixes, strings.ReplaceAll(p, ".", "/"))
	}
	if len(prefixes) == 0 {
		return nil
	}
	return &Predicate{prefixes: prefixes}
}

// Match reports whether rel starts with any configured prefix.
func (p *Predicate) Match(rel string) bool {
	if p == nil {
		return false
	}
	for _, prefix := range p.prefixes {
		if strings.HasPrefix(rel, prefix) {
			return true
		}
	}
	return false
}

// Prefixes returns the slash-form prefixes.
func (p *Predicate) Prefixes() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.prefixes...)
}

// Set is the pair of include/exclude predicates applied during one unpack.
type Set struct {
	Include *Predicate
	Exclude *Predicate
}

// NewSet compiles both lists.
func NewSet(include, exclude string) Set {
	return Set{Include: Compile(include), Exclude: Compile(exclude)}
}

// Quarantined reports whether a class should be kept away from the
// decompiler. Exclusion wins over inclusion.
func (s Set) Quarantined(rel string) bool {
	if s.Exclude.Match(rel) {
		return true
	}
	return s.Include != nil && !s.Include.Match(rel)
}

// Active reports whether any filter is configured.
func (s Set) Active() bool {
	return s.Include != nil || s.Exclude != nil
}
