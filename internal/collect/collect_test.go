package collect

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPackages copies only rpm files and creates the destination.
func TestPackages(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	src := filepath.Join(root, "RPMS", "aarch64")
	dest := filepath.Join(root, "release", "rpm", "1.2.3")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "nested.rpm"), 0o755))

	for name, contents := range map[string]string{
		"venera-1.2.3-1.aarch64.rpm":           "rpm",
		"venera-debuginfo-1.2.3-1.aarch64.rpm": "debug",
		"build.log":                            "log",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(src, name), []byte(contents), 0o644))
	}

	copied, err := Packages(context.Background(), src, dest)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dest, "venera-1.2.3-1.aarch64.rpm"),
		filepath.Join(dest, "venera-debuginfo-1.2.3-1.aarch64.rpm"),
	}, copied)

	data, err := os.ReadFile(copied[0])
	require.NoError(t, err)
	require.Equal(t, "rpm", string(data))

	_, err = os.Stat(filepath.Join(dest, "build.log"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestPackages_Empty reports ErrNoArtifacts.
func TestPackages_Empty(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	_, err := Packages(context.Background(), root, filepath.Join(root, "out"))
	require.ErrorIs(t, err, ErrNoArtifacts)
}

// TestPackages_MissingSource fails when the builder output directory is absent.
func TestPackages_MissingSource(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	_, err := Packages(context.Background(), filepath.Join(root, "RPMS", "x86_64"), filepath.Join(root, "out"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
