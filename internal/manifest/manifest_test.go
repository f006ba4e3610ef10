package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestStripBuildMetadata covers versions with and without a build suffix.
func TestStripBuildMetadata(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"1.2.3+7":         "1.2.3",
		"1.4.0+140":       "1.4.0",
		"0.0.1+a+b":       "0.0.1",
		"1.2.3":           "1.2.3",
		"  2.0.0  ":       "2.0.0",
		"3.1.0-beta.1+99": "3.1.0-beta.1",
		"+meta":           "",
	}
	for in, want := range cases {
		require.Equal(t, want, StripBuildMetadata(in), in)
	}
}

// TestParseVersion reads the top-level field and ignores nested ones.
func TestParseVersion(t *testing.T) {
	t.Parallel()

	contents := []byte(`name: venera
description: "A comic app."
publish_to: none
version: 1.4.5+145

environment:
  sdk: ">=3.0.0 <4.0.0"
  flutter: 3.24.0
`)

	version, err := ParseVersion(contents)
	require.NoError(t, err)
	require.Equal(t, "1.4.5", version)
}

// TestParseVersion_NumericScalar keeps "1.2" as text rather than a float.
func TestParseVersion_NumericScalar(t *testing.T) {
	t.Parallel()

	version, err := ParseVersion([]byte("version: 1.20\n"))
	require.NoError(t, err)
	require.Equal(t, "1.20", version)
}

// TestParseVersion_Missing reports ErrVersionNotFound when the field is absent or empty.
func TestParseVersion_Missing(t *testing.T) {
	t.Parallel()

	_, err := ParseVersion([]byte("name: venera\n"))
	require.ErrorIs(t, err, ErrVersionNotFound)

	_, err = ParseVersion([]byte("version: \"+12\"\n"))
	require.ErrorIs(t, err, ErrVersionNotFound)
}

// TestParseVersion_Malformed propagates the YAML failure.
func TestParseVersion_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseVersion([]byte("version: [1.2.3\n"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrVersionNotFound)
}

// TestReadVersion loads a manifest from disk and fails for a missing file.
func TestReadVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pubspec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: venera\nversion: 1.2.3+7\n"), 0o600))

	version, err := ReadVersion(path)
	require.NoError(t, err)
	require.Equal(t, "1.2.3", version)

	_, err = ReadVersion(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestCheck accepts semantic versions and flags the rest.
func TestCheck(t *testing.T) {
	t.Parallel()

	require.NoError(t, Check("1.2.3"))
	require.NoError(t, Check("1.2.3-beta.1"))
	require.ErrorIs(t, Check("release-one"), ErrNotSemantic)
}
