// Package manifest reads the ida.yaml project file that lists the
// targets to declare and build.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultName is the manifest file looked up in the working directory.
const DefaultName = "ida.yaml"

// Target is one declared target entry.
type Target struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind"` // library, plugin or loader
	Sources []string `yaml:"sources"`
	Include []string `yaml:"include,omitempty"`
	Link    []string `yaml:"link,omitempty"`
	Install bool     `yaml:"install,omitempty"`
}

// File is a parsed manifest.
type File struct {
	// SDK optionally pins the SDK root, same meaning as --sdk.
	SDK     string   `yaml:"sdk,omitempty"`
	Targets []Target `yaml:"targets"`
}

var kinds = map[string]bool{
	"library": true,
	"plugin":  true,
	"loader":  true,
}

// Load parses and validates the manifest at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &f, nil
}

func (f *File) validate() error {
	if len(f.Targets) == 0 {
		return fmt.Errorf("no targets declared")
	}
	seen := map[string]bool{}
	for i, t := range f.Targets {
		if t.Name == "" {
			return fmt.Errorf("target %d has no name", i)
		}
		if seen[t.Name] {
			return fmt.Errorf("target %q declared twice", t.Name)
		}
		seen[t.Name] = true
		if !kinds[t.Kind] {
			return fmt.Errorf("target %q: unknown kind %q (want library, plugin or loader)", t.Name, t.Kind)
		}
		if len(t.Sources) == 0 {
			return fmt.Errorf("target %q has no sources", t.Name)
		}
	}
	return nil
}
