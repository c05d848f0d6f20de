package internal

import (
	"fmt"
	"os"

	"github.com/binref/idabuild/internal/env"
	"github.com/binref/idabuild/internal/manifest"
	"github.com/binref/idabuild/internal/project"
	"github.com/binref/idabuild/internal/sdk"
)

// configureProject locates the SDK, validates it and declares every
// manifest target against a fresh project.
func configureProject(sdkRoot string, m *manifest.File) (*project.Project, error) {
	if sdkRoot == "" {
		sdkRoot = m.SDK
	}
	s, err := sdk.Locate(sdkRoot)
	if err != nil {
		return nil, err
	}
	if err := s.CheckVersion(sdk.MinVersion); err != nil {
		return nil, err
	}
	plat, err := sdk.Host()
	if err != nil {
		return nil, err
	}
	workDir, err := env.WorkDir()
	if err != nil {
		return nil, fmt.Errorf("resolve work directory: %w", err)
	}
	proj, err := project.New(s, plat, workDir)
	if err != nil {
		return nil, err
	}
	installDir, err := env.HostPluginsDir()
	if err != nil {
		return nil, err
	}
	if err := declareTargets(proj, m, installDir); err != nil {
		return nil, err
	}
	return proj, nil
}

// declareTargets maps manifest entries onto project declarations in
// manifest order.
func declareTargets(proj *project.Project, m *manifest.File, installDir string) error {
	for _, mt := range m.Targets {
		var t *project.Target
		var err error
		switch mt.Kind {
		case "library":
			t, err = proj.AddLibrary(mt.Name, mt.Sources...)
		case "plugin":
			t, err = proj.AddPlugin(mt.Name, mt.Sources...)
		case "loader":
			t, err = proj.AddLoader(mt.Name, mt.Sources...)
		default:
			err = fmt.Errorf("target %q: unknown kind %q", mt.Name, mt.Kind)
		}
		if err != nil {
			return err
		}
		if len(mt.Include) > 0 {
			proj.IncludeDirectories(t, mt.Include...)
		}
		if len(mt.Link) > 0 {
			proj.LinkLibraries(t, mt.Link...)
		}
		if mt.Install {
			proj.Install(t, installDir)
		}
	}
	return nil
}

func loadManifest() (*manifest.File, error) {
	if _, err := os.Stat(manifest.DefaultName); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s not found in current directory", manifest.DefaultName)
	}
	return manifest.Load(manifest.DefaultName)
}
