package unpack

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BadgerOps/bootunpack/internal/manifest"
)

//go:embed pom.template.xml
var defaultTemplate []byte

// TemplateSource supplies the descriptor template. It is only consulted
// when no candidate descriptor can be used.
type TemplateSource interface {
	Load() ([]byte, error)
}

// EmbeddedTemplate is the template shipped with the binary.
type EmbeddedTemplate struct{}

// Load returns the embedded template.
func (EmbeddedTemplate) Load() ([]byte, error) {
	return defaultTemplate, nil
}

// FileTemplate reads the template from disk on each Load.
type FileTemplate string

// Load reads the template file.
func (f FileTemplate) Load() ([]byte, error) {
	data, err := os.ReadFile(string(f))
	if err != nil {
		return nil, fmt.Errorf("reading descriptor template: %w", err)
	}
	return data, nil
}

// TemplateFor returns a file template for a non-empty path and the embedded
// one otherwise.
func TemplateFor(path string) TemplateSource {
	if path == "" {
		return EmbeddedTemplate{}
	}
	return FileTemplate(path)
}

// RenderDescriptor substitutes the synthesized coordinates and manifest
// versions into tmpl.
func RenderDescriptor(tmpl []byte, res Resolution, fields manifest.Fields) []byte {
	r := strings.NewReplacer(
		"${groupId}", res.GroupID,
		"${artifactId}", res.ArtifactID,
		"${javaVersion}", fields.JavaVersion,
		"${springBootVersion}", fields.SpringBootVersion,
	)
	return []byte(r.Replace(string(tmpl)))
}
