// Package stage assembles the staging directory that becomes the source tarball.
package stage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/otiai10/copy"

	"github.com/oshokin/venera-packager/internal/logger"
)

const (
	// BundleDirName is the staged copy of the flutter release bundle.
	BundleDirName = "bundle"

	dirPermissions = 0o755
)

// Sources are the files copied into the staging directory.
type Sources struct {
	// Product names the staged desktop file, icon and launcher.
	Product string
	// BundleDir is the flutter release bundle.
	BundleDir string
	// DesktopFile is the desktop-integration descriptor.
	DesktopFile string
	// Icon is the application icon (PNG).
	Icon string
	// Launcher is the wrapper script starting the bundled binary.
	Launcher string
}

// DesktopName is the staged desktop file name.
func DesktopName(product string) string { return product + ".desktop" }

// IconName is the staged icon file name.
func IconName(product string) string { return product + ".png" }

// LauncherName is the staged launcher script name.
func LauncherName(product string) string { return product + ".sh" }

// Prepare destroys dir, recreates it and copies every source in. It stops at the first failure.
func Prepare(ctx context.Context, src Sources, dir string) error {
	logger.InfoKV(ctx, "Preparing staging directory", "path", dir)

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clean staging directory: %w", err)
	}

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	items := []struct {
		from string
		to   string
	}{
		{src.BundleDir, BundleDirName},
		{src.DesktopFile, DesktopName(src.Product)},
		{src.Icon, IconName(src.Product)},
		{src.Launcher, LauncherName(src.Product)},
	}

	for _, item := range items {
		if _, err := os.Stat(item.from); err != nil {
			return fmt.Errorf("stage %s: %w", item.to, err)
		}

		dest := filepath.Join(dir, item.to)

		logger.DebugKV(ctx, "Staging", "from", item.from, "to", dest)

		if err := copy.Copy(item.from, dest); err != nil {
			return fmt.Errorf("stage %s: %w", item.to, err)
		}
	}

	return nil
}
