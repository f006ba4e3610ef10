package collect

import (
	"crypto"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	// Registers SHA-256 for crypto.SHA256.
	_ "crypto/sha256"
)

const (
	// ChecksumsFilename is written next to the collected packages.
	ChecksumsFilename = "checksums.yaml"

	// ChecksumFunction hashes the collected packages.
	ChecksumFunction crypto.Hash = crypto.SHA256

	checksumFilePermissions = 0o644
)

var errHashUnavailable = errors.New("hash function unavailable")

// Checksums lists the packages of one release with their digests.
type Checksums struct {
	// Version is the packaged application version.
	Version string `yaml:"version"`
	// Algorithm names the hash, e.g. "SHA-256".
	Algorithm string `yaml:"algorithm"`
	// Files maps package file names to hex digests.
	Files map[string]string `yaml:"files"`
}

// FileChecksum returns the hex digest of the file at path.
func FileChecksum(path string) (string, error) {
	if !ChecksumFunction.Available() {
		return "", fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := ChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// WriteChecksums hashes files and writes ChecksumsFilename into dir. It returns the written path.
func WriteChecksums(dir, version string, files []string) (string, error) {
	sums := Checksums{
		Version:   version,
		Algorithm: ChecksumFunction.String(),
		Files:     make(map[string]string, len(files)),
	}

	for _, file := range files {
		digest, err := FileChecksum(file)
		if err != nil {
			return "", fmt.Errorf("checksum %s: %w", filepath.Base(file), err)
		}

		sums.Files[filepath.Base(file)] = digest
	}

	contents, err := yaml.Marshal(&sums)
	if err != nil {
		return "", fmt.Errorf("marshal checksums: %w", err)
	}

	path := filepath.Join(dir, ChecksumsFilename)
	if err = os.WriteFile(path, contents, checksumFilePermissions); err != nil {
		return "", fmt.Errorf("write checksums: %w", err)
	}

	return path, nil
}
