package config

import (
	"path/filepath"

	"github.com/oshokin/venera-packager/internal/arch"
)

// Layout is the set of absolute paths used by one packaging run.
type Layout struct {
	// ArchiveRoot is the top directory inside the tarball: <product>-<version>.
	ArchiveRoot string
	// BundleDir is where flutter leaves the release bundle.
	BundleDir string
	// StageDir is the scratch directory archived into the tarball.
	StageDir string
	// SourcesDir, SpecsDir and RPMSDir follow the rpmbuild topdir convention.
	SourcesDir string
	SpecsDir   string
	RPMSDir    string
	// TarballPath is the source archive inside SourcesDir.
	TarballPath string
	// SpecPath is the rendered spec inside SpecsDir.
	SpecPath string
	// OutputDir receives the collected packages.
	OutputDir string
}

// Layout computes the run paths. Call Resolve first so every path is absolute.
func (c *Config) Layout(version string, target arch.Target) Layout {
	var (
		archiveRoot = c.Product + "-" + version
		releaseDir  = filepath.Join(c.Paths.BuildDir, "linux", target.Bundle, "release")
		sourcesDir  = filepath.Join(c.Paths.TopDir, "SOURCES")
		specsDir    = filepath.Join(c.Paths.TopDir, "SPECS")
	)

	return Layout{
		ArchiveRoot: archiveRoot,
		BundleDir:   filepath.Join(releaseDir, "bundle"),
		StageDir:    c.Paths.StageDir,
		SourcesDir:  sourcesDir,
		SpecsDir:    specsDir,
		RPMSDir:     filepath.Join(c.Paths.TopDir, "RPMS", target.RPM),
		TarballPath: filepath.Join(sourcesDir, archiveRoot+".tar.gz"),
		SpecPath:    filepath.Join(specsDir, c.Product+".spec"),
		OutputDir:   filepath.Join(releaseDir, "rpm", version),
	}
}
