// Package lipo wraps the macOS universal-binary tool of the same name.
package lipo

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Lipo invokes the external lipo binary.
type Lipo struct {
	bin    string
	stdout io.Writer
	stderr io.Writer
}

// New returns a ready-to-use Lipo that inherits the process stdio.
func New() *Lipo {
	return &Lipo{bin: "lipo", stdout: os.Stdout, stderr: os.Stderr}
}

// SetOutput redirects the tool's stdout and stderr.
func (l *Lipo) SetOutput(stdout, stderr io.Writer) {
	l.stdout = stdout
	l.stderr = stderr
}

// Create merges two or more single-architecture libraries into one
// universal library at output.
func (l *Lipo) Create(output string, inputs ...string) error {
	if len(inputs) < 2 {
		return fmt.Errorf("lipo create: need at least two input libraries, got %d", len(inputs))
	}
	return l.run(createArgs(output, inputs))
}

// Archs lists the architectures contained in file.
func (l *Lipo) Archs(file string) ([]string, error) {
	out, err := exec.Command(l.bin, "-archs", file).Output()
	if err != nil {
		return nil, fmt.Errorf("lipo -archs %s: %w", file, err)
	}
	return strings.Fields(string(out)), nil
}

func (l *Lipo) run(args []string) error {
	cmd := exec.Command(l.bin, args...)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("lipo %s: %w", strings.Join(args, " "), err)
	}
	return nil
}

func createArgs(output string, inputs []string) []string {
	args := append([]string{"-create"}, inputs...)
	return append(args, "-output", output)
}
