package rpm

import (
	"context"
	"fmt"

	"github.com/oshokin/venera-packager/internal/arch"
	"github.com/oshokin/venera-packager/internal/toolchain"
)

// Request describes one package build.
type Request struct {
	// Product is the package name.
	Product string
	// Version is the application version, without build metadata.
	Version string
	// Target is the architecture being packaged.
	Target arch.Target
	// Root is the project root; rpmbuild runs from there.
	Root string
	// TopDir is the rpmbuild top directory.
	TopDir string
	// SpecPath is the rendered spec.
	SpecPath string
	// TarballPath is the source archive in TopDir/SOURCES.
	TarballPath string
	// ArchiveRoot is the directory every tarball member lives under.
	ArchiveRoot string
	// RPMSDir is where the packages must end up: TopDir/RPMS/<rpm-arch>.
	RPMSDir string
}

// Builder produces packages for a request.
type Builder interface {
	Build(ctx context.Context, req Request) error
}

// ToolBuilder builds packages by invoking rpmbuild.
type ToolBuilder struct {
	// Runner executes rpmbuild.
	Runner toolchain.Runner
	// Rpmbuild is the executable name or path.
	Rpmbuild string
}

// NewToolBuilder returns a builder running the given rpmbuild executable.
func NewToolBuilder(runner toolchain.Runner, rpmbuild string) *ToolBuilder {
	return &ToolBuilder{
		Runner:   runner,
		Rpmbuild: rpmbuild,
	}
}

// Command returns the rpmbuild invocation for req.
func (b *ToolBuilder) Command(req Request) toolchain.Command {
	return toolchain.Command{
		Name: b.Rpmbuild,
		Args: []string{"-bb", req.SpecPath, "--define", "_topdir " + req.TopDir},
		Dir:  req.Root,
	}
}

// Build runs rpmbuild -bb against the rendered spec.
func (b *ToolBuilder) Build(ctx context.Context, req Request) error {
	if err := b.Runner.Run(ctx, b.Command(req)); err != nil {
		return fmt.Errorf("rpmbuild: %w", err)
	}

	return nil
}
