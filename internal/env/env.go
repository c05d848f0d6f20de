package env

import (
	"os"
	"path/filepath"
	"runtime"
)

// WorkDir returns the per-user directory that receives merged libraries,
// materialized linker scripts and build outputs, creating it if needed.
func WorkDir() (string, error) {
	userCacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(userCacheDir, ".idabuild")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// PluginsDir returns IDA's per-user plugins directory for goos.
func PluginsDir(goos string) (string, error) {
	if goos == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Hex-Rays", "IDA Pro", "plugins"), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".idapro", "plugins"), nil
}

// HostPluginsDir returns PluginsDir for the running system.
func HostPluginsDir() (string, error) {
	return PluginsDir(runtime.GOOS)
}
