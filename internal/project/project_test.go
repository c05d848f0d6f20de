package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/binref/idabuild/internal/sdk"
)

// fixtureSDK lays out a fake SDK with the marker header and the given
// lib files, then locates it.
func fixtureSDK(t *testing.T, libs ...string) *sdk.SDK {
	t.Helper()
	root := t.TempDir()
	includeDir := filepath.Join(root, "include")
	if err := os.MkdirAll(includeDir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", includeDir, err)
	}
	header := []byte("#define IDA_SDK_VERSION 840\n")
	if err := os.WriteFile(filepath.Join(includeDir, sdk.MarkerHeader), header, 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	for _, rel := range libs {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("stub"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
	s, err := sdk.Locate(root)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	return s
}

func darwinProject(t *testing.T) *Project {
	t.Helper()
	s := fixtureSDK(t,
		"lib/x64_mac_clang_64/libida64.dylib",
		"lib/arm64_mac_clang_64/libida64.dylib",
	)
	return newProject(t, s, "darwin")
}

func linuxProject(t *testing.T) *Project {
	t.Helper()
	s := fixtureSDK(t, "lib/x64_linux_gcc_64/libida64.so")
	return newProject(t, s, "linux")
}

func windowsProject(t *testing.T) *Project {
	t.Helper()
	s := fixtureSDK(t, "lib/x64_win_vc_64/ida.lib")
	return newProject(t, s, "windows")
}

func newProject(t *testing.T, s *sdk.SDK, goos string) *Project {
	t.Helper()
	p, err := sdk.Classify(goos)
	if err != nil {
		t.Fatalf("Classify(%s): %v", goos, err)
	}
	proj, err := New(s, p, t.TempDir())
	if err != nil {
		t.Fatalf("New(%s): %v", goos, err)
	}
	return proj
}

func TestNewRegistersImportedTarget(t *testing.T) {
	proj := linuxProject(t)
	ida := proj.Lookup("ida64")
	if ida == nil {
		t.Fatal("ida64 target not registered")
	}
	if ida.Kind != KindImported {
		t.Errorf("ida64 kind = %v, want imported", ida.Kind)
	}
	if ida.Location != proj.Libs.Shared {
		t.Errorf("ida64 location = %q, want %q", ida.Location, proj.Libs.Shared)
	}
	if len(proj.Actions()) != 0 {
		t.Errorf("linux project registered %d actions, want 0", len(proj.Actions()))
	}
}

func TestNewDarwinMergeAction(t *testing.T) {
	proj := darwinProject(t)
	actions := proj.Actions()
	if len(actions) != 1 {
		t.Fatalf("got %d actions, want 1", len(actions))
	}
	act := actions[0]
	if act.Tool != "lipo" {
		t.Errorf("action tool = %q, want lipo", act.Tool)
	}
	if len(act.Inputs) != 2 {
		t.Errorf("action inputs = %v, want both arch dylibs", act.Inputs)
	}
	if !act.Byproduct {
		t.Error("merge output not marked as byproduct")
	}
	if want := filepath.Join(proj.WorkDir, "libida64.dylib"); act.Output != want {
		t.Errorf("action output = %q, want %q", act.Output, want)
	}

	ida := proj.Lookup("ida64")
	if ida.Location != act.Output {
		t.Errorf("ida64 location = %q, want merge output %q", ida.Location, act.Output)
	}
	if len(ida.DependsOn) != 1 || ida.DependsOn[0] != act.Name {
		t.Errorf("ida64 depends on %v, want [%s]", ida.DependsOn, act.Name)
	}
}

func TestMergeActionDeclaredOnce(t *testing.T) {
	proj := darwinProject(t)
	// Repeated helper invocations must reuse the single merge action.
	if _, err := proj.AddPlugin("first", "a.cpp"); err != nil {
		t.Fatalf("AddPlugin: %v", err)
	}
	if _, err := proj.AddLoader("second", "b.cpp"); err != nil {
		t.Fatalf("AddLoader: %v", err)
	}
	if _, err := proj.AddPlugin("third", "c.cpp"); err != nil {
		t.Fatalf("AddPlugin: %v", err)
	}
	if got := len(proj.Actions()); got != 1 {
		t.Errorf("got %d actions after repeated declarations, want 1", got)
	}
}

func TestNewFailsBeforeMergeOnMissingArch(t *testing.T) {
	s := fixtureSDK(t, "lib/x64_mac_clang_64/libida64.dylib")
	p, _ := sdk.Classify("darwin")
	proj, err := New(s, p, t.TempDir())
	if err == nil {
		t.Fatal("New succeeded with the arm64 dylib missing")
	}
	if proj != nil {
		t.Error("New returned a project alongside the error")
	}
	if !strings.Contains(err.Error(), "arm64_mac_clang_64") {
		t.Errorf("error %q does not name the missing library", err)
	}
}

func TestLinuxScriptsMaterialized(t *testing.T) {
	proj := linuxProject(t)
	for _, name := range []string{"plugin.script", "loader.script"} {
		path := filepath.Join(proj.WorkDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !strings.Contains(string(data), "local: *;") {
			t.Errorf("%s does not restrict local symbols: %q", name, data)
		}
	}
}

func TestDuplicateTargetName(t *testing.T) {
	proj := linuxProject(t)
	if _, err := proj.AddPlugin("dup", "a.cpp"); err != nil {
		t.Fatalf("AddPlugin: %v", err)
	}
	if _, err := proj.AddLibrary("dup", "b.cpp"); err == nil {
		t.Error("duplicate target name accepted")
	}
}

func TestTargetsOrder(t *testing.T) {
	proj := linuxProject(t)
	proj.AddLibrary("util", "util.cpp")
	proj.AddPlugin("plug", "plug.cpp")

	var names []string
	for _, tgt := range proj.Targets() {
		names = append(names, tgt.Name)
	}
	want := []string{"ida64", "util", "plug"}
	if len(names) != len(want) {
		t.Fatalf("targets = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("targets = %v, want %v", names, want)
		}
	}
}
