package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// buildMetadataSeparator starts the build-metadata suffix (e.g. "1.2.3+7").
const buildMetadataSeparator = "+"

var (
	// ErrVersionNotFound is returned when the manifest has no usable version field.
	ErrVersionNotFound = errors.New("version field not found in manifest")
	// ErrNotSemantic is returned by Check for versions go-version cannot parse.
	ErrNotSemantic = errors.New("version is not semantic")
)

// document is the subset of the manifest the packager cares about.
type document struct {
	Version string `yaml:"version"`
}

// ReadVersion parses the manifest at path and returns its version without build metadata.
func ReadVersion(path string) (string, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("read manifest: %w", err)
	}

	return ParseVersion(contents)
}

// ParseVersion extracts the top-level version field from manifest contents.
func ParseVersion(contents []byte) (string, error) {
	var doc document
	if err := yaml.Unmarshal(contents, &doc); err != nil {
		return "", fmt.Errorf("parse manifest: %w", err)
	}

	version := StripBuildMetadata(doc.Version)
	if version == "" {
		return "", ErrVersionNotFound
	}

	return version, nil
}

// StripBuildMetadata drops everything from the first "+" and trims whitespace.
// Strings without "+" are only trimmed.
func StripBuildMetadata(raw string) string {
	version, _, _ := strings.Cut(strings.TrimSpace(raw), buildMetadataSeparator)

	return strings.TrimSpace(version)
}

// Check reports whether version parses as a semantic version.
// The packager only warns on failure: RPM accepts versions semver does not.
func Check(version string) error {
	if _, err := goversion.NewSemver(version); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrNotSemantic, version, err)
	}

	return nil
}
