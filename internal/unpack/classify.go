package unpack

import (
	"strings"

	"github.com/BadgerOps/bootunpack/internal/manifest"
	"github.com/BadgerOps/bootunpack/internal/pathutil"
)

// EntryKind is the destination an archive entry is routed to.
type EntryKind int

const (
	KindIgnored EntryKind = iota
	KindDescriptor
	KindManifest
	KindLibrary
	KindClass
	KindResource
)

func (k EntryKind) String() string {
	switch k {
	case KindDescriptor:
		return "descriptor"
	case KindManifest:
		return "manifest"
	case KindLibrary:
		return "library"
	case KindClass:
		return "class"
	case KindResource:
		return "resource"
	default:
		return "ignored"
	}
}

const (
	descriptorDir    = "META-INF/maven/"
	descriptorSuffix = "/pom.xml"
	classSuffix      = ".class"
)

// Bundled library and class directories of the supported packaging layouts
// (executable jar and war).
var (
	libraryPrefixes = []string{"BOOT-INF/lib/", "WEB-INF/lib/", "WEB-INF/lib-provided/"}
	classPrefixes   = []string{"BOOT-INF/classes/", "WEB-INF/classes/"}
)

// Route is the outcome of classifying one entry name.
type Route struct {
	Kind   EntryKind
	Prefix string // matched bundle prefix, empty for descriptor/manifest
	Rel    string // destination path relative to the kind's output dir
}

// rule is one row of the routing table.
type rule struct {
	kind  EntryKind
	match func(name string, isDir bool) (Route, bool)
}

// rules is evaluated top to bottom; the first match wins.
var rules = []rule{
	{KindDescriptor, func(name string, _ bool) (Route, bool) {
		ok := strings.HasPrefix(name, descriptorDir) && strings.HasSuffix(name, descriptorSuffix)
		return Route{Rel: name}, ok
	}},
	{KindManifest, func(name string, _ bool) (Route, bool) {
		return Route{Rel: name}, name == manifest.Path
	}},
	{KindLibrary, func(name string, isDir bool) (Route, bool) {
		if isDir {
			return Route{}, false
		}
		for _, prefix := range libraryPrefixes {
			if _, ok := pathutil.StripPrefix(name, prefix); ok {
				return Route{Prefix: prefix, Rel: pathutil.Base(name)}, true
			}
		}
		return Route{}, false
	}},
	{KindClass, func(name string, _ bool) (Route, bool) {
		if !strings.HasSuffix(name, classSuffix) {
			return Route{}, false
		}
		return matchClassPrefix(name)
	}},
	{KindResource, func(name string, isDir bool) (Route, bool) {
		if isDir || strings.HasSuffix(name, classSuffix) {
			return Route{}, false
		}
		return matchClassPrefix(name)
	}},
}

func matchClassPrefix(name string) (Route, bool) {
	for _, prefix := range classPrefixes {
		if rel, ok := pathutil.StripPrefix(name, prefix); ok && rel != "" {
			return Route{Prefix: prefix, Rel: rel}, true
		}
	}
	return Route{}, false
}

// Classify routes an entry name. Directory entries are recognized either by
// the caller's flag or by a trailing slash.
func Classify(name string, isDir bool) Route {
	isDir = isDir || pathutil.IsDirName(name)
	for _, r := range rules {
		if route, ok := r.match(name, isDir); ok {
			route.Kind = r.kind
			return route
		}
	}
	return Route{Kind: KindIgnored, Rel: name}
}
