// Package toolchain turns declared targets into compiler and linker
// invocations and runs them.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/binref/idabuild/internal/project"
	"github.com/binref/idabuild/x/lipo"
)

// Toolchain builds one project's registered actions and targets.
type Toolchain struct {
	proj   *project.Project
	stdout io.Writer
	stderr io.Writer
}

// New returns a toolchain that inherits the process stdio.
func New(proj *project.Project) *Toolchain {
	return &Toolchain{proj: proj, stdout: os.Stdout, stderr: os.Stderr}
}

// SetOutput redirects tool output, e.g. to io.Discard for quiet builds.
func (tc *Toolchain) SetOutput(stdout, stderr io.Writer) {
	tc.stdout = stdout
	tc.stderr = stderr
}

// Build runs all registered actions, then compiles and links every
// declared target in declaration order. Actions run first so targets
// depending on their byproducts always link against a finished file.
func (tc *Toolchain) Build(ctx context.Context) error {
	for _, act := range tc.proj.Actions() {
		if err := tc.runAction(act); err != nil {
			return err
		}
	}
	for _, tgt := range tc.proj.Targets() {
		if tgt.Kind == project.KindImported {
			continue
		}
		if err := tc.buildTarget(ctx, tgt); err != nil {
			return err
		}
	}
	return nil
}

func (tc *Toolchain) runAction(act *project.Action) error {
	if act.Tool != "lipo" {
		return fmt.Errorf("action %s: unknown tool %q", act.Name, act.Tool)
	}
	if upToDate(act.Output, act.Inputs) {
		return nil
	}
	l := lipo.New()
	l.SetOutput(tc.stdout, tc.stderr)
	if err := l.Create(act.Output, act.Inputs...); err != nil {
		return fmt.Errorf("action %s: %w", act.Name, err)
	}
	return nil
}

// upToDate reports whether output exists and is no older than any input.
func upToDate(output string, inputs []string) bool {
	out, err := os.Stat(output)
	if err != nil {
		return false
	}
	for _, in := range inputs {
		fi, err := os.Stat(in)
		if err != nil || fi.ModTime().After(out.ModTime()) {
			return false
		}
	}
	return true
}

func (tc *Toolchain) buildTarget(ctx context.Context, tgt *project.Target) error {
	if len(tgt.Sources) == 0 {
		return fmt.Errorf("target %s has no sources", tgt.Name)
	}
	objDir := filepath.Join(tc.proj.WorkDir, "obj", tgt.Name)
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return fmt.Errorf("target %s: %w", tgt.Name, err)
	}
	objs := make([]string, 0, len(tgt.Sources))
	for _, src := range tgt.Sources {
		obj := filepath.Join(objDir, objName(src, tc.proj.Platform.OS))
		if err := tc.run(ctx, tc.compileCommand(tgt, src, obj)); err != nil {
			return fmt.Errorf("compile %s: %w", src, err)
		}
		objs = append(objs, obj)
	}
	argv, err := tc.linkCommand(tgt, objs)
	if err != nil {
		return err
	}
	if err := tc.run(ctx, argv); err != nil {
		return fmt.Errorf("link %s: %w", tgt.Name, err)
	}
	return nil
}

// compileCommand renders the compile invocation for one source file.
func (tc *Toolchain) compileCommand(tgt *project.Target, source, obj string) []string {
	if tc.proj.Platform.OS == "windows" {
		argv := []string{"cl", "/nologo", "/EHsc", "/c", source, "/Fo:" + obj}
		for _, def := range tgt.Defines {
			argv = append(argv, "/D"+def)
		}
		for _, dir := range tgt.IncludeDirs {
			argv = append(argv, "/I"+dir)
		}
		return append(argv, tgt.CompileFlags...)
	}
	argv := []string{compilerFor(tc.proj.Platform.OS), "-std=c++17", "-fPIC", "-c", source, "-o", obj}
	for _, def := range tgt.Defines {
		argv = append(argv, "-D"+def)
	}
	for _, dir := range tgt.IncludeDirs {
		argv = append(argv, "-I"+dir)
	}
	return append(argv, tgt.CompileFlags...)
}

// linkCommand renders the archive or link invocation for a target.
func (tc *Toolchain) linkCommand(tgt *project.Target, objs []string) ([]string, error) {
	out := tc.proj.ArtifactPath(tgt)
	if tgt.Kind == project.KindLibrary {
		if tc.proj.Platform.OS == "windows" {
			return append([]string{"lib", "/NOLOGO", "/OUT:" + out}, objs...), nil
		}
		return append([]string{"ar", "rcs", out}, objs...), nil
	}

	deps, err := tc.resolveLinkLibs(tgt)
	if err != nil {
		return nil, err
	}
	if tc.proj.Platform.OS == "windows" {
		argv := append([]string{"link", "/NOLOGO", "/DLL", "/OUT:" + out}, objs...)
		argv = append(argv, tgt.LinkFlags...)
		return append(argv, deps...), nil
	}
	argv := []string{compilerFor(tc.proj.Platform.OS), "-shared", "-o", out}
	argv = append(argv, objs...)
	argv = append(argv, tgt.LinkFlags...)
	return append(argv, deps...), nil
}

func (tc *Toolchain) resolveLinkLibs(tgt *project.Target) ([]string, error) {
	deps := make([]string, 0, len(tgt.LinkLibs))
	for _, name := range tgt.LinkLibs {
		dep := tc.proj.Lookup(name)
		if dep == nil {
			return nil, fmt.Errorf("target %s links unknown target %q", tgt.Name, name)
		}
		deps = append(deps, tc.proj.ArtifactPath(dep))
	}
	return deps, nil
}

func (tc *Toolchain) run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = tc.stdout
	cmd.Stderr = tc.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}

func compilerFor(goos string) string {
	if goos == "darwin" {
		return "clang++"
	}
	return "g++"
}

func objName(source, goos string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if goos == "windows" {
		return base + ".obj"
	}
	return base + ".o"
}
