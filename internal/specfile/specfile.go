// Package specfile renders the RPM spec from its template by literal
// placeholder substitution.
package specfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Placeholders recognised in the template.
const (
	VersionPlaceholder = "{{Version}}"
	ArchPlaceholder    = "{{RpmArch}}"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// ErrPlaceholderMissing is returned when the template lacks a required placeholder.
var ErrPlaceholderMissing = errors.New("placeholder missing from spec template")

// Values fill the template placeholders.
type Values struct {
	Version string
	RPMArch string
}

// Render substitutes every placeholder occurrence in tpl.
func Render(tpl string, values Values) string {
	return strings.NewReplacer(
		VersionPlaceholder, values.Version,
		ArchPlaceholder, values.RPMArch,
	).Replace(tpl)
}

// Check reports which placeholders tpl is missing.
func Check(tpl string) error {
	var missing []string

	for _, placeholder := range []string{VersionPlaceholder, ArchPlaceholder} {
		if !strings.Contains(tpl, placeholder) {
			missing = append(missing, placeholder)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrPlaceholderMissing, strings.Join(missing, ", "))
	}

	return nil
}

// RenderFile reads the template at templatePath and writes the rendered spec to outPath.
// A template without one of the placeholders is rejected.
func RenderFile(templatePath, outPath string, values Values) error {
	contents, err := os.ReadFile(filepath.Clean(templatePath))
	if err != nil {
		return fmt.Errorf("read spec template: %w", err)
	}

	tpl := string(contents)
	if err = Check(tpl); err != nil {
		return fmt.Errorf("%s: %w", templatePath, err)
	}

	if err = os.MkdirAll(filepath.Dir(outPath), dirPermissions); err != nil {
		return fmt.Errorf("create specs directory: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(outPath), []byte(Render(tpl, values)), filePermissions); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}

	return nil
}
