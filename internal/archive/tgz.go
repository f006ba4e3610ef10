package archive

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/oshokin/venera-packager/internal/logger"
)

const filePermissions = 0o644

// WriteTarGz archives srcDir into destPath with every entry under rootName/.
func WriteTarGz(ctx context.Context, srcDir, destPath, rootName string) (err error) {
	logger.InfoKV(ctx, "Creating source archive", "path", destPath, "root", rootName)

	destFile, err := os.OpenFile(filepath.Clean(destPath), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissions)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", destPath, err)
	}

	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close archive %s: %w", destPath, closeErr)
		}
	}()

	gzipWriter, err := gzip.NewWriterLevel(destFile, gzip.BestCompression)
	if err != nil {
		return fmt.Errorf("create gzip writer: %w", err)
	}

	tarWriter := tar.NewWriter(gzipWriter)

	if err = writeTree(tarWriter, srcDir, rootName); err != nil {
		return err
	}

	if err = tarWriter.Close(); err != nil {
		return fmt.Errorf("finish tar stream: %w", err)
	}

	if err = gzipWriter.Close(); err != nil {
		return fmt.Errorf("finish gzip stream: %w", err)
	}

	return nil
}

// writeTree adds srcDir and everything below it to tw.
func writeTree(tw *tar.Writer, srcDir, rootName string) error {
	return filepath.WalkDir(srcDir, func(filePath string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(srcDir, filePath)
		if err != nil {
			return fmt.Errorf("relative path of %q: %w", filePath, err)
		}

		var link string
		if info.Mode().Type() == fs.ModeSymlink {
			if link, err = os.Readlink(filePath); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}

		header.Name = path.Join(rootName, filepath.ToSlash(relPath))
		if info.IsDir() {
			header.Name += "/"
		}

		// Ownership of the build host is meaningless inside the package.
		header.Uid, header.Gid = 0, 0
		header.Uname, header.Gname = "root", "root"

		if err = tw.WriteHeader(header); err != nil {
			return fmt.Errorf("write header for %q: %w", header.Name, err)
		}

		if !info.Mode().IsRegular() {
			return nil
		}

		return copyFileTo(tw, filePath)
	})
}

func copyFileTo(w io.Writer, filePath string) error {
	file, err := os.Open(filepath.Clean(filePath))
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err = io.Copy(w, file); err != nil {
		return fmt.Errorf("archive %q: %w", filePath, err)
	}

	return nil
}

// Entry is one archive member handed to a WalkFunc.
type Entry struct {
	Header *tar.Header
	// Body reads the member contents; empty for non-regular entries.
	Body io.Reader
}

// WalkFunc is called for every member of an archive, in archive order.
type WalkFunc func(entry Entry) error

// Walk reads the tar.gz at archivePath and calls fn for each member.
func Walk(archivePath string, fn WalkFunc) error {
	file, err := os.Open(filepath.Clean(archivePath))
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("read archive: %w", err)
		}

		if err = fn(Entry{Header: header, Body: tarReader}); err != nil {
			return err
		}
	}
}
