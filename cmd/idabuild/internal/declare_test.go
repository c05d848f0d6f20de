package internal

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/binref/idabuild/internal/manifest"
	"github.com/binref/idabuild/internal/project"
	"github.com/binref/idabuild/internal/sdk"
)

func fixtureProject(t *testing.T) *project.Project {
	t.Helper()
	root := t.TempDir()
	includeDir := filepath.Join(root, "include")
	if err := os.MkdirAll(includeDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	header := []byte("#define IDA_SDK_VERSION 840\n")
	if err := os.WriteFile(filepath.Join(includeDir, sdk.MarkerHeader), header, 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	lib := filepath.Join(root, "lib", "x64_linux_gcc_64", "libida64.so")
	os.MkdirAll(filepath.Dir(lib), 0o755)
	if err := os.WriteFile(lib, []byte("stub"), 0o644); err != nil {
		t.Fatalf("write lib: %v", err)
	}
	s, err := sdk.Locate(root)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	plat, err := sdk.Classify("linux")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	proj, err := project.New(s, plat, t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return proj
}

func TestDeclareTargets(t *testing.T) {
	proj := fixtureProject(t)
	m := &manifest.File{
		Targets: []manifest.Target{
			{Name: "util", Kind: "library", Sources: []string{"util.cpp"}},
			{Name: "plug", Kind: "plugin", Sources: []string{"plug.cpp"},
				Include: []string{"contrib/include"}, Link: []string{"util"}, Install: true},
			{Name: "load", Kind: "loader", Sources: []string{"load.cpp"}},
		},
	}
	if err := declareTargets(proj, m, "/dest/plugins"); err != nil {
		t.Fatalf("declareTargets: %v", err)
	}

	util := proj.Lookup("util")
	if util == nil || util.Kind != project.KindLibrary {
		t.Fatalf("util not declared as library: %+v", util)
	}
	plug := proj.Lookup("plug")
	if plug == nil || plug.Kind != project.KindPlugin {
		t.Fatalf("plug not declared as plugin: %+v", plug)
	}
	if !slices.Contains(plug.LinkLibs, "util") {
		t.Errorf("plug link libs %v missing util", plug.LinkLibs)
	}
	if !slices.Contains(plug.IncludeDirs, "contrib/include") {
		t.Errorf("plug include dirs %v missing contrib/include", plug.IncludeDirs)
	}
	if plug.InstallDir != "/dest/plugins" {
		t.Errorf("plug install dir = %q", plug.InstallDir)
	}
	load := proj.Lookup("load")
	if load == nil || load.Kind != project.KindLoader {
		t.Fatalf("load not declared as loader: %+v", load)
	}
	if load.InstallDir != "" {
		t.Errorf("load install dir = %q, want none", load.InstallDir)
	}
}

func TestInstallArtifact(t *testing.T) {
	src := filepath.Join(t.TempDir(), "plug.so")
	if err := os.WriteFile(src, []byte("artifact"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}
	dest := filepath.Join(t.TempDir(), "plugins")
	if err := installArtifact(src, dest); err != nil {
		t.Fatalf("installArtifact: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "plug.so"))
	if err != nil {
		t.Fatalf("installed file missing: %v", err)
	}
	if string(data) != "artifact" {
		t.Errorf("installed content = %q", data)
	}
}
