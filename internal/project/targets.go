package project

import "path/filepath"

// commonDefines are required by the vendor headers on every target.
var commonDefines = []string{
	"__EA64__",
	"__X64__",
	"__IDP__",
	"USE_DANGEROUS_FUNCTIONS",
	"USE_STANDARD_FILE_FUNCTIONS",
}

// moduleWarningFlags relax two diagnostics the vendor's plugin base
// classes trip on non-Windows toolchains.
var moduleWarningFlags = []string{
	"-Wno-non-virtual-dtor",
	"-Wno-varargs",
}

// AddLibrary declares a static helper library with the common SDK
// settings applied.
func (p *Project) AddLibrary(name string, sources ...string) (*Target, error) {
	t := &Target{
		Name:       name,
		Kind:       KindLibrary,
		Sources:    sources,
		OutputName: staticLibName(name, p.Platform.OS),
	}
	p.applyCommonSettings(t)
	if err := p.register(t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddPlugin declares a loadable plugin module linked against ida64, with
// the plugin export-control policy applied.
func (p *Project) AddPlugin(name string, sources ...string) (*Target, error) {
	return p.addModule(name, KindPlugin, sources)
}

// AddLoader declares a loadable loader module linked against ida64, with
// the loader export-control policy applied.
func (p *Project) AddLoader(name string, sources ...string) (*Target, error) {
	return p.addModule(name, KindLoader, sources)
}

func (p *Project) addModule(name string, kind Kind, sources []string) (*Target, error) {
	t := &Target{
		Name:       name,
		Kind:       kind,
		Sources:    sources,
		OutputName: name + moduleExt(p.Platform.OS),
		LinkLibs:   []string{importedTarget},
	}
	if p.Platform.OS == "darwin" {
		act := p.ensureUniversalMerge()
		t.DependsOn = append(t.DependsOn, act.Name)
	}
	p.applyCommonSettings(t)
	p.applyExportPolicy(t, kind)
	if p.Platform.OS != "windows" {
		t.CompileFlags = append(t.CompileFlags, moduleWarningFlags...)
	}
	if err := p.register(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (p *Project) applyCommonSettings(t *Target) {
	t.Defines = append(t.Defines, p.Platform.Tag)
	t.Defines = append(t.Defines, commonDefines...)
	t.IncludeDirs = append(t.IncludeDirs, p.SDK.IncludeDir)
}

// applyExportPolicy restricts the symbols a loadable module exposes.
// Each OS has one fixed policy per module kind: flat-namespace with a
// single exported entry point on darwin, a version script on linux, and
// implicit import-library linking on windows.
func (p *Project) applyExportPolicy(t *Target, kind Kind) {
	switch p.Platform.OS {
	case "darwin":
		symbol := "_PLUGIN"
		if kind == KindLoader {
			symbol = "_LDSC"
		}
		t.LinkFlags = append(t.LinkFlags,
			"-Wl,-flat_namespace",
			"-Wl,-exported_symbol,"+symbol,
		)
	case "linux":
		t.LinkFlags = append(t.LinkFlags,
			"-Wl,--version-script="+p.scriptPath(kind),
		)
	case "windows":
		// The import library handles symbol visibility.
	}
}

// LinkLibraries records extra link dependencies by target name, in call
// order, after anything the declaration helper already added.
func (p *Project) LinkLibraries(t *Target, names ...string) {
	t.LinkLibs = append(t.LinkLibs, names...)
}

// IncludeDirectories appends include search paths after the SDK's own.
func (p *Project) IncludeDirectories(t *Target, dirs ...string) {
	t.IncludeDirs = append(t.IncludeDirs, dirs...)
}

// SetTargetProperty records an arbitrary key/value property on a target.
func (p *Project) SetTargetProperty(t *Target, key, value string) {
	if t.Properties == nil {
		t.Properties = map[string]string{}
	}
	t.Properties[key] = value
}

// Install marks a target for installation into dir.
func (p *Project) Install(t *Target, dir string) {
	t.InstallDir = dir
}

func staticLibName(name, goos string) string {
	if goos == "windows" {
		return name + ".lib"
	}
	return "lib" + name + ".a"
}

// moduleExt is the loadable-module suffix; module names carry no "lib"
// prefix on any platform.
func moduleExt(goos string) string {
	switch goos {
	case "darwin":
		return ".dylib"
	case "windows":
		return ".dll"
	default:
		return ".so"
	}
}

// ArtifactPath returns where a target's built (or imported) artifact
// lives once the project is built.
func (p *Project) ArtifactPath(t *Target) string {
	if t.Kind == KindImported {
		return t.Location
	}
	return filepath.Join(p.WorkDir, t.OutputName)
}
