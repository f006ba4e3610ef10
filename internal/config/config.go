package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Builder names accepted in Config.Builder.
const (
	BuilderRpmbuild = "rpmbuild"
	BuilderNative   = "native"
)

const (
	// DefaultConfigFilename is looked up in the project root when no --config is given.
	DefaultConfigFilename = "venera-packager.yaml"

	// DefaultEnvFilename holds optional environment overrides in the project root.
	DefaultEnvFilename = ".env"

	// DefaultProduct names the tarball, spec file and installed paths.
	DefaultProduct = "venera"

	// DefaultFilePermissions is used when saving settings.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is used for the directory of a new settings file.
	DefaultDirPermissions = 0o755
)

// Environment variables overriding the matching settings.
const (
	EnvFlutter  = "VENERA_FLUTTER"
	EnvRpmbuild = "VENERA_RPMBUILD"
	EnvBuilder  = "VENERA_BUILDER"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errProductRequired is returned when the product name is empty.
	errProductRequired = errors.New("product name must be provided")
	// errUnknownBuilder is returned for a builder other than rpmbuild or native.
	errUnknownBuilder = errors.New("unknown builder")
	// errRootRequired is returned when paths are resolved without a root.
	errRootRequired = errors.New("project root must be provided")

	// ErrConfigExists is returned by Init when the file is already there.
	ErrConfigExists = errors.New("configuration file already exists")
)

// Config holds everything a packaging run needs besides the target architecture.
type Config struct {
	// Product is the package name used for the tarball, spec and installed paths.
	Product string `yaml:"product"`
	// Builder selects how the RPM is produced: "rpmbuild" or "native".
	Builder string `yaml:"builder"`
	// SkipBuild skips the flutter invocations when the bundle is already present.
	SkipBuild bool `yaml:"skip_build"`
	// LogLevel is the minimum level of log records.
	LogLevel string `yaml:"log_level"`
	// Paths lists the inputs and outputs, relative to Paths.Root unless absolute.
	Paths Paths `yaml:"paths"`
	// Tools names the external executables.
	Tools Tools `yaml:"tools"`
	// Package holds metadata used by the native builder.
	Package Package `yaml:"package"`
}

// Paths lists every location the packager touches.
type Paths struct {
	// Root is the project root. Not persisted: it comes from the CLI.
	Root string `yaml:"-"`

	Manifest     string `yaml:"manifest"`
	DesktopFile  string `yaml:"desktop_file"`
	Icon         string `yaml:"icon"`
	Launcher     string `yaml:"launcher"`
	SpecTemplate string `yaml:"spec_template"`
	StageDir     string `yaml:"stage_dir"`
	TopDir       string `yaml:"top_dir"`
	BuildDir     string `yaml:"build_dir"`
	LockFile     string `yaml:"lock_file"`
}

// Tools names the external executables; bare names are looked up in PATH.
type Tools struct {
	Flutter  string `yaml:"flutter"`
	Rpmbuild string `yaml:"rpmbuild"`
}

// Package is RPM metadata for the native builder. rpmbuild reads it from the spec instead.
type Package struct {
	Release string `yaml:"release"`
	Summary string `yaml:"summary"`
	License string `yaml:"license"`
	URL     string `yaml:"url"`
}

// Default returns the settings matching the repository's fedora/ layout.
func Default() *Config {
	return &Config{
		Product:  DefaultProduct,
		Builder:  BuilderRpmbuild,
		LogLevel: "info",
		Paths: Paths{
			Manifest:     "pubspec.yaml",
			DesktopFile:  filepath.Join("fedora", "gui", "venera.desktop"),
			Icon:         filepath.Join("assets", "app_icon.png"),
			Launcher:     filepath.Join("fedora", "wrapper.sh"),
			SpecTemplate: filepath.Join("fedora", "venera.spec.in"),
			StageDir:     filepath.Join("fedora", "stage"),
			TopDir:       filepath.Join("fedora", "rpmbuild"),
			BuildDir:     "build",
			LockFile:     filepath.Join("fedora", "packager.lock"),
		},
		Tools: Tools{
			Flutter:  "flutter",
			Rpmbuild: "rpmbuild",
		},
		Package: Package{
			Release: "1",
			Summary: "A comic reader that supports reading local and network comics",
			License: "GPL-3.0-only",
			URL:     "https://github.com/venera-app/venera",
		},
	}
}

// Load reads settings from path on top of Default and validates them.
// When optional is set a missing file yields the defaults.
func Load(path string, optional bool) (*Config, error) {
	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))

	switch {
	case err == nil:
		if err = yaml.Unmarshal(contents, cfg); err != nil {
			return nil, fmt.Errorf("unmarshal settings: %w", err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes settings to path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Init writes the default settings to path, creating its directory.
// An existing file is kept unless overwrite is set.
func Init(path string, overwrite bool) error {
	if !overwrite {
		_, err := os.Stat(path)

		switch {
		case err == nil:
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		case !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("inspect settings: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	return Save(path, Default())
}

// Validate checks required fields and fills defaults for empty optional ones.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	cfg.Product = strings.TrimSpace(cfg.Product)
	if cfg.Product == "" {
		return errProductRequired
	}

	defaults := Default()

	if cfg.Builder == "" {
		cfg.Builder = defaults.Builder
	}

	switch cfg.Builder {
	case BuilderRpmbuild, BuilderNative:
	default:
		return fmt.Errorf("%w: %q", errUnknownBuilder, cfg.Builder)
	}

	if cfg.Tools.Flutter == "" {
		cfg.Tools.Flutter = defaults.Tools.Flutter
	}

	if cfg.Tools.Rpmbuild == "" {
		cfg.Tools.Rpmbuild = defaults.Tools.Rpmbuild
	}

	if cfg.Package.Release == "" {
		cfg.Package.Release = defaults.Package.Release
	}

	fillPathDefaults(&cfg.Paths, &defaults.Paths)

	return nil
}

// ApplyEnv loads the .env file in dir, if any, and applies overrides from the environment.
func ApplyEnv(cfg *Config, dir string) error {
	envFile := filepath.Join(dir, DefaultEnvFilename)

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	if v := strings.TrimSpace(os.Getenv(EnvFlutter)); v != "" {
		cfg.Tools.Flutter = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvRpmbuild)); v != "" {
		cfg.Tools.Rpmbuild = v
	}

	if v := strings.TrimSpace(os.Getenv(EnvBuilder)); v != "" {
		cfg.Builder = v
	}

	return Validate(cfg)
}

// Resolve makes every path absolute against root.
func Resolve(cfg *Config, root string) error {
	if strings.TrimSpace(root) == "" {
		return errRootRequired
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}

	p := &cfg.Paths
	p.Root = absRoot

	for _, field := range []*string{
		&p.Manifest, &p.DesktopFile, &p.Icon, &p.Launcher, &p.SpecTemplate,
		&p.StageDir, &p.TopDir, &p.BuildDir, &p.LockFile,
	} {
		if !filepath.IsAbs(*field) {
			*field = filepath.Join(absRoot, *field)
		}

		*field = filepath.Clean(*field)
	}

	return nil
}

func fillPathDefaults(p, defaults *Paths) {
	pairs := []struct {
		value    *string
		fallback string
	}{
		{&p.Manifest, defaults.Manifest},
		{&p.DesktopFile, defaults.DesktopFile},
		{&p.Icon, defaults.Icon},
		{&p.Launcher, defaults.Launcher},
		{&p.SpecTemplate, defaults.SpecTemplate},
		{&p.StageDir, defaults.StageDir},
		{&p.TopDir, defaults.TopDir},
		{&p.BuildDir, defaults.BuildDir},
		{&p.LockFile, defaults.LockFile},
	}

	for _, pair := range pairs {
		if strings.TrimSpace(*pair.value) == "" {
			*pair.value = pair.fallback
		}
	}
}
