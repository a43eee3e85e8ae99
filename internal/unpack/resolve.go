package unpack

import (
	"strings"

	"github.com/BadgerOps/bootunpack/internal/manifest"
)

// DescriptorRule names the step of the resolver that produced a decision.
type DescriptorRule string

const (
	RuleSingleCandidate DescriptorRule = "single-candidate"
	RulePackagePrefix   DescriptorRule = "package-prefix"
	RuleTitle           DescriptorRule = "implementation-title"
	RuleGroup           DescriptorRule = "artifact-group"
	RuleSynthesized     DescriptorRule = "synthesized"
)

// Resolution is the resolver's decision: either an archive entry to copy
// verbatim or coordinates for a synthesized descriptor.
type Resolution struct {
	Rule       DescriptorRule
	Entry      string // set unless Rule == RuleSynthesized
	GroupID    string
	ArtifactID string
}

// Synthesized reports whether no candidate was selected.
func (r Resolution) Synthesized() bool {
	return r.Rule == RuleSynthesized
}

// candidatePackage turns "META-INF/maven/com.acme/app/pom.xml" into
// "com.acme.app".
func candidatePackage(entry string) string {
	p := strings.TrimPrefix(entry, descriptorDir)
	p = strings.TrimSuffix(p, descriptorSuffix)
	return strings.ReplaceAll(p, "/", ".")
}

// candidateGroup returns the first path segment under the maven directory.
func candidateGroup(entry string) string {
	p := strings.TrimPrefix(entry, descriptorDir)
	p = strings.TrimSuffix(p, descriptorSuffix)
	group, _, _ := strings.Cut(p, "/")
	return group
}

// packageOf strips the leaf of a dotted class name. A name without a dot is
// its own package.
func packageOf(className string) string {
	if i := strings.LastIndex(className, "."); i >= 0 {
		return className[:i]
	}
	return className
}

// Resolve picks the project's own descriptor from candidates, falling back
// to synthesized coordinates. It does not touch the archive.
func Resolve(candidates []string, fields manifest.Fields) Resolution {
	if len(candidates) == 1 {
		return Resolution{Rule: RuleSingleCandidate, Entry: candidates[0]}
	}

	startClass := fields.StartClass
	for _, c := range candidates {
		if strings.HasPrefix(startClass, candidatePackage(c)+".") {
			return Resolution{Rule: RulePackagePrefix, Entry: c}
		}
	}

	if title := fields.ImplementationTitle; title != "" {
		want := packageOf(startClass) + "." + title
		for _, c := range candidates {
			if candidatePackage(c) == want {
				return Resolution{Rule: RuleTitle, Entry: c}
			}
		}
	}

	if entry, ok := resolveByGroup(candidates, startClass); ok {
		return Resolution{Rule: RuleGroup, Entry: entry}
	}

	groupID, artifactID := synthesizeCoordinates(fields)
	return Resolution{Rule: RuleSynthesized, GroupID: groupID, ArtifactID: artifactID}
}

// resolveByGroup selects the first candidate of the only artifact group that
// prefixes startClass. Several matching groups are ambiguous.
func resolveByGroup(candidates []string, startClass string) (string, bool) {
	var matched string
	first := make(map[string]string)
	for _, c := range candidates {
		g := candidateGroup(c)
		if g == "" || !strings.HasPrefix(startClass, g+".") {
			continue
		}
		if _, seen := first[g]; !seen {
			first[g] = c
			matched = g
		}
	}
	if len(first) != 1 {
		return "", false
	}
	return first[matched], true
}

func synthesizeCoordinates(fields manifest.Fields) (groupID, artifactID string) {
	pkg := packageOf(fields.StartClass)
	if title := fields.ImplementationTitle; title != "" {
		groupID = strings.TrimSuffix(pkg, "."+title)
		if groupID == "" {
			groupID = pkg
		}
		return groupID, title
	}
	if !strings.Contains(pkg, ".") {
		return pkg, "demo"
	}
	return pkg, packageOf(pkg)
}
