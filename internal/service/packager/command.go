package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/venera-packager/internal/arch"
	"github.com/oshokin/venera-packager/internal/archive"
	"github.com/oshokin/venera-packager/internal/collect"
	"github.com/oshokin/venera-packager/internal/config"
	"github.com/oshokin/venera-packager/internal/lock"
	"github.com/oshokin/venera-packager/internal/logger"
	"github.com/oshokin/venera-packager/internal/manifest"
	"github.com/oshokin/venera-packager/internal/rpm"
	"github.com/oshokin/venera-packager/internal/specfile"
	"github.com/oshokin/venera-packager/internal/stage"
	"github.com/oshokin/venera-packager/internal/toolchain"
)

const dirPermissions = 0o755

// Options contains inputs for the packager entry point.
type Options struct {
	// Arch is the architecture selector: x64, arm64 or any token passed through.
	Arch string
	// Root is the project root; relative paths in the configuration resolve against it.
	Root string
	// ConfigPath is the settings file. Empty means venera-packager.yaml in Root, if present.
	ConfigPath string
	// Builder overrides the configured builder when set.
	Builder string
	// SkipBuild skips the flutter invocations when set.
	SkipBuild bool
	// LogLevel overrides the configured log level when set.
	LogLevel string
	// Runner executes external tools. Nil means toolchain.NewExecRunner().
	Runner toolchain.Runner
}

// Result describes a successful run.
type Result struct {
	// Version is the packaged application version.
	Version string
	// Target is the packaged architecture.
	Target arch.Target
	// Layout holds the paths the run used.
	Layout config.Layout
	// Artifacts are the collected package paths.
	Artifacts []string
	// Checksums is the path of the checksum manifest written next to the artifacts.
	Checksums string
}

// packager runs the pipeline for one configuration.
// It is unexported: callers use Run, which handles configuration and locking.
type packager struct {
	// cfg holds resolved settings with absolute paths.
	cfg *config.Config
	// runner executes flutter and, for the rpmbuild builder, rpmbuild.
	runner toolchain.Runner
	// builder produces the packages.
	builder rpm.Builder
}

// Run executes the packaging workflow for opts.Arch.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "venera-packager")

	// Checked first so a usage error never touches the filesystem or tools.
	if opts == nil || strings.TrimSpace(opts.Arch) == "" {
		return nil, ErrUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, wrapStep(StepConfig, err)
	}

	if lvl, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
		logger.SetLevel(lvl)
	} else {
		logger.WarnKV(ctx, "Unknown log level, keeping the current one", "log_level", cfg.LogLevel)
	}

	logger.Debug(ctx, "Log level set to ", logger.Level())

	runner := opts.Runner
	if runner == nil {
		runner = toolchain.NewExecRunner()
	}

	pkg := newPackager(cfg, runner)

	runLock, err := lock.Acquire(ctx, cfg.Paths.LockFile)
	if err != nil {
		return nil, wrapStep(StepLock, err)
	}

	defer func() {
		if releaseErr := runLock.Release(); releaseErr != nil {
			logger.WarnKV(ctx, "Could not release packager lock", "error", releaseErr)
		}
	}()

	result, err := pkg.Run(ctx, strings.TrimSpace(opts.Arch))
	if err != nil {
		logger.ErrorKV(ctx, "Packaging failed", "error", err)

		return nil, err
	}

	logger.InfoKV(ctx, "Packager completed successfully",
		"version", result.Version,
		"arch", result.Target.RPM,
		"artifacts", len(result.Artifacts),
	)

	return result, nil
}

// loadConfig builds the settings from file, environment and opts, then resolves every path.
func loadConfig(opts *Options) (*config.Config, error) {
	root := opts.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("detect project root: %w", err)
		}

		root = wd
	}

	configPath := opts.ConfigPath
	optional := configPath == ""

	if optional {
		configPath = filepath.Join(root, config.DefaultConfigFilename)
	}

	cfg, err := config.Load(configPath, optional)
	if err != nil {
		return nil, err
	}

	if err = config.ApplyEnv(cfg, root); err != nil {
		return nil, err
	}

	if opts.Builder != "" {
		cfg.Builder = opts.Builder
	}

	if opts.SkipBuild {
		cfg.SkipBuild = true
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}

	if err = config.Validate(cfg); err != nil {
		return nil, err
	}

	if err = config.Resolve(cfg, root); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newPackager wires the builder selected by cfg.
func newPackager(cfg *config.Config, runner toolchain.Runner) *packager {
	var builder rpm.Builder

	switch cfg.Builder {
	case config.BuilderNative:
		builder = rpm.NewNativeBuilder(rpm.Metadata{
			Release: cfg.Package.Release,
			Summary: cfg.Package.Summary,
			License: cfg.Package.License,
			URL:     cfg.Package.URL,
		})
	default:
		builder = rpm.NewToolBuilder(runner, cfg.Tools.Rpmbuild)
	}

	return &packager{
		cfg:     cfg,
		runner:  runner,
		builder: builder,
	}
}

// Run executes the nine steps for the architecture selector token.
func (p *packager) Run(ctx context.Context, token string) (*Result, error) {
	version, err := p.resolveVersion(ctx)
	if err != nil {
		return nil, wrapStep(StepVersion, err)
	}

	target := arch.Resolve(token)
	layout := p.cfg.Layout(version, target)

	ctx = logger.WithKV(ctx, "version", version, "arch", target.RPM)

	logger.InfoKV(ctx, "Resolved target", "bundle_arch", target.Bundle, "rpm_arch", target.RPM)

	if err = p.buildBundle(ctx); err != nil {
		return nil, wrapStep(StepBuild, err)
	}

	if err = verifyBundle(layout.BundleDir); err != nil {
		return nil, wrapStep(StepVerify, err)
	}

	if err = p.stage(ctx, layout); err != nil {
		return nil, wrapStep(StepStage, err)
	}

	if err = p.archive(ctx, layout); err != nil {
		return nil, wrapStep(StepArchive, err)
	}

	if err = p.renderSpec(ctx, layout, version, target); err != nil {
		return nil, wrapStep(StepSpec, err)
	}

	if err = p.buildPackage(ctx, layout, version, target); err != nil {
		return nil, wrapStep(StepPackage, err)
	}

	artifacts, err := collect.Packages(ctx, layout.RPMSDir, layout.OutputDir)
	if err != nil {
		return nil, wrapStep(StepCollect, err)
	}

	checksums, err := collect.WriteChecksums(layout.OutputDir, version, artifacts)
	if err != nil {
		return nil, wrapStep(StepCollect, err)
	}

	logger.InfoKV(ctx, "Checksums written", "path", checksums)

	return &Result{
		Version:   version,
		Target:    target,
		Layout:    layout,
		Artifacts: artifacts,
		Checksums: checksums,
	}, nil
}

func (p *packager) resolveVersion(ctx context.Context) (string, error) {
	version, err := manifest.ReadVersion(p.cfg.Paths.Manifest)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.cfg.Paths.Manifest, err)
	}

	if err = manifest.Check(version); err != nil {
		logger.WarnKV(ctx, "Version is not semantic, packaging it as is", "error", err)
	}

	return version, nil
}

func (p *packager) buildBundle(ctx context.Context) error {
	if p.cfg.SkipBuild {
		logger.Info(ctx, "Skipping flutter build")

		return nil
	}

	logger.Info(ctx, "Building the Linux bundle")

	return toolchain.BuildLinuxBundle(ctx, p.runner, p.cfg.Tools.Flutter, p.cfg.Paths.Root)
}

// verifyBundle fails with ErrBundleNotFound unless dir is an existing directory.
func verifyBundle(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrBundleNotFound, dir)
	}

	return nil
}

func (p *packager) stage(ctx context.Context, layout config.Layout) error {
	return stage.Prepare(ctx, stage.Sources{
		Product:     p.cfg.Product,
		BundleDir:   layout.BundleDir,
		DesktopFile: p.cfg.Paths.DesktopFile,
		Icon:        p.cfg.Paths.Icon,
		Launcher:    p.cfg.Paths.Launcher,
	}, layout.StageDir)
}

func (p *packager) archive(ctx context.Context, layout config.Layout) error {
	for _, dir := range []string{layout.SourcesDir, layout.SpecsDir} {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return archive.WriteTarGz(ctx, layout.StageDir, layout.TarballPath, layout.ArchiveRoot)
}

func (p *packager) renderSpec(ctx context.Context, layout config.Layout, version string, target arch.Target) error {
	logger.InfoKV(ctx, "Rendering spec", "template", p.cfg.Paths.SpecTemplate, "path", layout.SpecPath)

	return specfile.RenderFile(p.cfg.Paths.SpecTemplate, layout.SpecPath, specfile.Values{
		Version: version,
		RPMArch: target.RPM,
	})
}

func (p *packager) buildPackage(ctx context.Context, layout config.Layout, version string, target arch.Target) error {
	// Packages of earlier runs must not be collected into this release.
	if err := os.RemoveAll(layout.RPMSDir); err != nil {
		return fmt.Errorf("clean %s: %w", layout.RPMSDir, err)
	}

	if err := os.MkdirAll(layout.RPMSDir, dirPermissions); err != nil {
		return fmt.Errorf("create %s: %w", layout.RPMSDir, err)
	}

	logger.InfoKV(ctx, "Building package", "builder", p.cfg.Builder, "topdir", p.cfg.Paths.TopDir)

	return p.builder.Build(ctx, rpm.Request{
		Product:     p.cfg.Product,
		Version:     version,
		Target:      target,
		Root:        p.cfg.Paths.Root,
		TopDir:      p.cfg.Paths.TopDir,
		SpecPath:    layout.SpecPath,
		TarballPath: layout.TarballPath,
		ArchiveRoot: layout.ArchiveRoot,
		RPMSDir:     layout.RPMSDir,
	})
}
