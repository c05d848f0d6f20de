// Package sdk locates an installed IDA SDK on disk and resolves the
// prebuilt library artifacts that plugins link against.
package sdk

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"golang.org/x/mod/semver"
)

const (
	// EnvRoot is the environment variable consulted when no explicit
	// root is given.
	EnvRoot = "IDASDK_ROOT"

	// MarkerHeader must exist under <root>/include for a directory to
	// be accepted as an SDK root.
	MarkerHeader = "pro.h"

	// MinVersion is the oldest SDK release this tool configures.
	MinVersion = "v7.0.0"
)

// fallbackDir is probed last, relative to the working directory.
var fallbackDir = filepath.Join("..", "idasdk")

// SDK is a located IDA SDK installation.
type SDK struct {
	Root       string
	IncludeDir string

	// Version is the SDK release in semver form (IDA_SDK_VERSION 840
	// becomes "v8.4.0"), or empty when pro.h carries no parsable version.
	Version string
}

// Locate resolves the SDK root by probing, in order, the explicit root
// argument, $IDASDK_ROOT, and ../idasdk. The first directory containing
// include/pro.h wins; empty hints are skipped. There is no system-wide
// fallback search.
func Locate(root string) (*SDK, error) {
	hints := []string{root, os.Getenv(EnvRoot), fallbackDir}
	for _, dir := range hints {
		if dir == "" {
			continue
		}
		marker := filepath.Join(dir, "include", MarkerHeader)
		if _, err := os.Stat(marker); err == nil {
			return open(dir)
		}
	}
	return nil, fmt.Errorf("IDA SDK not found: no hint directory contains include/%s; pass --sdk or set %s to the SDK root", MarkerHeader, EnvRoot)
}

func open(dir string) (*SDK, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve SDK root %s: %w", dir, err)
	}
	s := &SDK{
		Root:       abs,
		IncludeDir: filepath.Join(abs, "include"),
	}
	data, err := os.ReadFile(filepath.Join(s.IncludeDir, MarkerHeader))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", MarkerHeader, err)
	}
	s.Version = parseVersion(data)
	return s, nil
}

var versionRe = regexp.MustCompile(`(?m)^#define\s+IDA_SDK_VERSION\s+(\d+)`)

// parseVersion maps the vendor's packed IDA_SDK_VERSION constant to a
// semver string: 840 -> v8.4.0, 760 -> v7.6.0.
func parseVersion(header []byte) string {
	m := versionRe.FindSubmatch(header)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(string(m[1]))
	if err != nil || n < 100 {
		return ""
	}
	return fmt.Sprintf("v%d.%d.%d", n/100, (n/10)%10, n%10)
}

// CheckVersion fails when the located SDK predates min (a semver string
// such as MinVersion) or when its version could not be determined.
func (s *SDK) CheckVersion(min string) error {
	if s.Version == "" {
		return fmt.Errorf("SDK at %s has no parsable IDA_SDK_VERSION in %s", s.Root, MarkerHeader)
	}
	if semver.Compare(s.Version, min) < 0 {
		return fmt.Errorf("SDK version %s at %s is older than the minimum supported %s", s.Version, s.Root, min)
	}
	return nil
}
