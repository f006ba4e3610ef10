package rpm

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/rpmpack"

	"github.com/oshokin/venera-packager/internal/archive"
	"github.com/oshokin/venera-packager/internal/logger"
	"github.com/oshokin/venera-packager/internal/stage"
)

const (
	modeDir     = 0o40000
	modeSymlink = 0o120000

	executablePermissions = 0o755
	dataPermissions       = 0o644
	dirPermissions        = 0o755

	fileOwner = "root"
	fileGroup = "root"
)

// ErrInvalidVersion is returned for versions rpm cannot carry.
var ErrInvalidVersion = errors.New("invalid rpm version")

// Metadata is descriptive package information for the native builder.
type Metadata struct {
	Release string
	Summary string
	License string
	URL     string
}

// NativeBuilder writes the package in-process from the source tarball.
type NativeBuilder struct {
	// Metadata fills the package header.
	Metadata Metadata
	// Now stamps the build time; nil means time.Now.
	Now func() time.Time
}

// NewNativeBuilder returns a builder using meta for the package header.
func NewNativeBuilder(meta Metadata) *NativeBuilder {
	return &NativeBuilder{
		Metadata: meta,
		Now:      time.Now,
	}
}

// FileName returns the package file name for req: <product>-<version>-<release>.<arch>.rpm.
func (b *NativeBuilder) FileName(req Request) string {
	return fmt.Sprintf("%s-%s-%s.%s.rpm", req.Product, req.Version, b.Metadata.Release, req.Target.RPM)
}

// Build reads the tarball, maps its members onto the install layout and writes the package to req.RPMSDir.
func (b *NativeBuilder) Build(ctx context.Context, req Request) (err error) {
	if req.Version == "" || strings.ContainsAny(req.Version, "- \t") {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, req.Version)
	}

	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	pkg, err := rpmpack.NewRPM(rpmpack.RPMMetaData{
		Name:      req.Product,
		Summary:   b.Metadata.Summary,
		Version:   req.Version,
		Release:   b.Metadata.Release,
		Arch:      req.Target.RPM,
		OS:        "linux",
		URL:       b.Metadata.URL,
		Licence:   b.Metadata.License,
		BuildTime: now(),
	})
	if err != nil {
		return fmt.Errorf("create rpm: %w", err)
	}

	layout := newInstallLayout(req.Product)

	var added int

	err = archive.Walk(req.TarballPath, func(entry archive.Entry) error {
		file, ok, mapErr := layout.fileFor(req.ArchiveRoot, entry)
		if mapErr != nil || !ok {
			return mapErr
		}

		logger.DebugKV(ctx, "Adding file to package", "path", file.Name)
		pkg.AddFile(file)

		added++

		return nil
	})
	if err != nil {
		return fmt.Errorf("read source archive: %w", err)
	}

	if added == 0 {
		return fmt.Errorf("source archive %s has no members under %s/", req.TarballPath, req.ArchiveRoot)
	}

	if err = os.MkdirAll(req.RPMSDir, dirPermissions); err != nil {
		return fmt.Errorf("create RPMS directory: %w", err)
	}

	outPath := filepath.Join(req.RPMSDir, b.FileName(req))

	logger.InfoKV(ctx, "Writing package", "path", outPath, "files", added)

	out, err := os.OpenFile(filepath.Clean(outPath), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, dataPermissions)
	if err != nil {
		return fmt.Errorf("create package file: %w", err)
	}

	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close package file: %w", closeErr)
		}
	}()

	if err = pkg.Write(out); err != nil {
		return fmt.Errorf("write package: %w", err)
	}

	return nil
}

// installTarget is where a staged top-level file is installed.
type installTarget struct {
	path string
	mode uint
}

// installLayout maps staged names to installed paths.
type installLayout struct {
	libDir  string
	targets map[string]installTarget
}

func newInstallLayout(product string) *installLayout {
	return &installLayout{
		libDir: path.Join("/usr/lib", product),
		targets: map[string]installTarget{
			stage.LauncherName(product): {path.Join("/usr/bin", product), executablePermissions},
			stage.DesktopName(product):  {path.Join("/usr/share/applications", stage.DesktopName(product)), dataPermissions},
			stage.IconName(product):     {path.Join("/usr/share/pixmaps", stage.IconName(product)), dataPermissions},
		},
	}
}

// fileFor converts one tarball member. ok is false for members that are not installed.
func (l *installLayout) fileFor(root string, entry archive.Entry) (rpmpack.RPMFile, bool, error) {
	header := entry.Header

	rel, found := strings.CutPrefix(strings.TrimSuffix(header.Name, "/"), root+"/")
	if !found || rel == "" {
		return rpmpack.RPMFile{}, false, nil
	}

	file := rpmpack.RPMFile{
		Owner: fileOwner,
		Group: fileGroup,
		MTime: uint32(header.ModTime.Unix()), //nolint:gosec // Times before 2106 fit.
	}

	perm := uint(header.FileInfo().Mode().Perm())

	switch {
	case rel == stage.BundleDirName || strings.HasPrefix(rel, stage.BundleDirName+"/"):
		file.Name = path.Join(l.libDir, strings.TrimPrefix(rel, stage.BundleDirName))
	default:
		target, known := l.targets[rel]
		if !known {
			return rpmpack.RPMFile{}, false, nil
		}

		file.Name = target.path
		perm = target.mode
	}

	switch header.Typeflag {
	case tar.TypeDir:
		file.Mode = modeDir | perm
	case tar.TypeSymlink:
		file.Mode = modeSymlink | 0o777
		file.Body = []byte(header.Linkname)
	case tar.TypeReg:
		body, err := io.ReadAll(entry.Body)
		if err != nil {
			return rpmpack.RPMFile{}, false, fmt.Errorf("read %s: %w", header.Name, err)
		}

		file.Mode = perm
		file.Body = body
	default:
		return rpmpack.RPMFile{}, false, nil
	}

	return file, true, nil
}
