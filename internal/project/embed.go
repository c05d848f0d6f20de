package project

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed scripts/plugin.script scripts/loader.script
var scriptFS embed.FS

const (
	pluginScript = "plugin.script"
	loaderScript = "loader.script"
)

// writeLinkerScripts materializes the embedded version scripts into dir
// so the linker can reference them by path.
func writeLinkerScripts(dir string) error {
	for _, name := range []string{pluginScript, loaderScript} {
		data, err := scriptFS.ReadFile("scripts/" + name)
		if err != nil {
			return fmt.Errorf("embedded script %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// scriptPath returns the materialized version script for a module kind.
func (p *Project) scriptPath(kind Kind) string {
	name := pluginScript
	if kind == KindLoader {
		name = loaderScript
	}
	return filepath.Join(p.WorkDir, name)
}
