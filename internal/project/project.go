// Package project registers build targets against a located IDA SDK.
// It owns the imported ida64 library target, the darwin universal-binary
// merge action, and the declaration helpers plugins are built with.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/binref/idabuild/internal/sdk"
)

// Kind distinguishes the target flavors the helpers declare.
type Kind int

const (
	KindImported Kind = iota // prebuilt SDK library, never compiled here
	KindLibrary              // static helper library
	KindPlugin               // loadable plugin module
	KindLoader               // loadable loader module
)

func (k Kind) String() string {
	switch k {
	case KindImported:
		return "imported"
	case KindLibrary:
		return "library"
	case KindPlugin:
		return "plugin"
	case KindLoader:
		return "loader"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Target is one declared build target.
type Target struct {
	Name    string
	Kind    Kind
	Sources []string

	Defines      []string
	IncludeDirs  []string
	CompileFlags []string
	LinkFlags    []string
	LinkLibs     []string // names of targets linked in, resolved at link time
	DependsOn    []string // action names that must run first
	Properties   map[string]string
	InstallDir   string // empty means no install rule

	// OutputName is the artifact file name; plugin and loader modules
	// carry no "lib" prefix.
	OutputName string

	// Location is the on-disk artifact for imported targets.
	Location string
}

// Action is a registered external build step. The darwin universal merge
// is the only action this tool declares.
type Action struct {
	Name      string
	Tool      string // external tool name, e.g. "lipo"
	Inputs    []string
	Output    string
	Byproduct bool // output is a byproduct downstream targets may depend on
}

// Project is one configuration run's target and action registry.
type Project struct {
	SDK      *sdk.SDK
	Platform sdk.Platform
	Libs     *sdk.Libraries

	// WorkDir receives merged libraries, materialized linker scripts
	// and build outputs.
	WorkDir string

	targets     map[string]*Target
	order       []string
	actions     map[string]*Action
	actionOrder []string
}

const (
	importedTarget = "ida64"
	mergeAction    = "ida64-universal"
)

// New configures a project for the given SDK and platform. The prebuilt
// libraries are resolved first; any missing artifact fails before a
// single target or action is registered. On darwin the imported ida64
// target points at the universal merge output and depends on the merge
// action; elsewhere it points at the vendor file directly.
func New(s *sdk.SDK, p sdk.Platform, workDir string) (*Project, error) {
	libs, err := s.Libraries(p)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create work directory: %w", err)
	}
	proj := &Project{
		SDK:      s,
		Platform: p,
		Libs:     libs,
		WorkDir:  workDir,
		targets:  map[string]*Target{},
		actions:  map[string]*Action{},
	}
	if p.OS == "linux" {
		if err := writeLinkerScripts(workDir); err != nil {
			return nil, err
		}
	}

	imported := &Target{Name: importedTarget, Kind: KindImported}
	switch p.OS {
	case "darwin":
		act := proj.ensureUniversalMerge()
		imported.Location = act.Output
		imported.DependsOn = append(imported.DependsOn, act.Name)
	case "linux":
		imported.Location = libs.Shared
	case "windows":
		imported.Location = libs.Import
	}
	if err := proj.register(imported); err != nil {
		return nil, err
	}
	return proj, nil
}

// ensureUniversalMerge registers the lipo merge action at most once per
// project; later callers get the already-registered action back.
func (p *Project) ensureUniversalMerge() *Action {
	if act, ok := p.actions[mergeAction]; ok {
		return act
	}
	act := &Action{
		Name:      mergeAction,
		Tool:      "lipo",
		Inputs:    []string{p.Libs.MacX64, p.Libs.MacARM64},
		Output:    filepath.Join(p.WorkDir, "libida64.dylib"),
		Byproduct: true,
	}
	p.actions[act.Name] = act
	p.actionOrder = append(p.actionOrder, act.Name)
	return act
}

func (p *Project) register(t *Target) error {
	if _, ok := p.targets[t.Name]; ok {
		return fmt.Errorf("target %q declared twice", t.Name)
	}
	p.targets[t.Name] = t
	p.order = append(p.order, t.Name)
	return nil
}

// Lookup returns the named target, or nil.
func (p *Project) Lookup(name string) *Target {
	return p.targets[name]
}

// Targets returns all targets in declaration order.
func (p *Project) Targets() []*Target {
	out := make([]*Target, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.targets[name])
	}
	return out
}

// Actions returns all registered actions in declaration order.
func (p *Project) Actions() []*Action {
	out := make([]*Action, 0, len(p.actionOrder))
	for _, name := range p.actionOrder {
		out = append(out, p.actions[name])
	}
	return out
}
