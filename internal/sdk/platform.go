package sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Platform identifies one of the three host systems the SDK ships
// prebuilt libraries for.
type Platform struct {
	OS string // GOOS value: darwin, linux or windows

	// Tag is the symbolic constant the vendor headers branch on. Its
	// value is opaque to this tool; it only ever becomes a compiler
	// define.
	Tag string
}

// Classify selects exactly one platform branch for goos. Any system
// outside the three supported ones is a terminal configuration error.
func Classify(goos string) (Platform, error) {
	switch goos {
	case "darwin":
		return Platform{OS: goos, Tag: "__MAC__"}, nil
	case "linux":
		return Platform{OS: goos, Tag: "__LINUX__"}, nil
	case "windows":
		return Platform{OS: goos, Tag: "__NT__"}, nil
	}
	return Platform{}, fmt.Errorf("unsupported host system %q: only darwin, linux and windows are supported", goos)
}

// Host classifies the system this process runs on.
func Host() (Platform, error) {
	return Classify(runtime.GOOS)
}

// Libraries holds the resolved prebuilt SDK artifacts for one platform.
// Only the fields of the selected branch are set.
type Libraries struct {
	MacX64   string // darwin: x86_64 dylib
	MacARM64 string // darwin: arm64 dylib
	Shared   string // linux: shared object
	Import   string // windows: import library
}

// Libraries resolves the per-platform prebuilt library files under the
// SDK root. Every expected file must exist; a missing artifact fails
// naming its path.
func (s *SDK) Libraries(p Platform) (*Libraries, error) {
	switch p.OS {
	case "darwin":
		libs := &Libraries{
			MacX64:   filepath.Join(s.Root, "lib", "x64_mac_clang_64", "libida64.dylib"),
			MacARM64: filepath.Join(s.Root, "lib", "arm64_mac_clang_64", "libida64.dylib"),
		}
		for _, lib := range []string{libs.MacX64, libs.MacARM64} {
			if err := mustExist(lib); err != nil {
				return nil, err
			}
		}
		return libs, nil
	case "linux":
		libs := &Libraries{
			Shared: filepath.Join(s.Root, "lib", "x64_linux_gcc_64", "libida64.so"),
		}
		if err := mustExist(libs.Shared); err != nil {
			return nil, err
		}
		return libs, nil
	case "windows":
		libs := &Libraries{
			Import: filepath.Join(s.Root, "lib", "x64_win_vc_64", "ida.lib"),
		}
		if err := mustExist(libs.Import); err != nil {
			return nil, err
		}
		return libs, nil
	}
	return nil, fmt.Errorf("unsupported host system %q", p.OS)
}

func mustExist(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("SDK library missing: %s", path)
	}
	return nil
}
