// Package collect copies the packages produced by the builder into the
// release output directory.
package collect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/otiai10/copy"

	"github.com/oshokin/venera-packager/internal/logger"
)

// PackageExtension selects the files collected from the builder output.
const PackageExtension = ".rpm"

const dirPermissions = 0o755

// ErrNoArtifacts is returned when the builder output holds no package.
var ErrNoArtifacts = errors.New("no packages found")

// Packages copies every *.rpm regular file in srcDir into destDir and returns the copied paths, sorted.
func Packages(ctx context.Context, srcDir, destDir string) ([]string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return nil, fmt.Errorf("list builder output: %w", err)
	}

	if err = os.MkdirAll(destDir, dirPermissions); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var copied []string

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), PackageExtension) {
			continue
		}

		dest := filepath.Join(destDir, entry.Name())

		if err = copy.Copy(filepath.Join(srcDir, entry.Name()), dest); err != nil {
			return copied, fmt.Errorf("copy %s: %w", entry.Name(), err)
		}

		logger.InfoKV(ctx, "RPM generated", "path", dest)

		copied = append(copied, dest)
	}

	if len(copied) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoArtifacts, srcDir)
	}

	sort.Strings(copied)

	return copied, nil
}
