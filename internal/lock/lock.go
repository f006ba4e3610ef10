package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/venera-packager/internal/logger"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// ErrLocked is returned when another live packager holds the lock.
var ErrLocked = errors.New("another packager run is in progress")

// Lock is a held run lock.
type Lock struct {
	path string
}

// owner is the content of a lock file.
type owner struct {
	pid        int
	executable string
}

// Acquire takes the lock at path, replacing it when its owner is gone.
func Acquire(ctx context.Context, path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	self, err := currentOwner()
	if err != nil {
		return nil, err
	}

	err = create(path, self)
	if err == nil {
		return &Lock{path: path}, nil
	}

	if !errors.Is(err, os.ErrExist) {
		return nil, err
	}

	// An empty or unparsable lock may belong to a run that has not written its PID yet.
	holder, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("%w (lock %s: %w)", ErrLocked, path, err)
	}

	if isRunning(holder) {
		return nil, fmt.Errorf("%w (pid %d, lock %s)", ErrLocked, holder.pid, path)
	}

	logger.WarnKV(ctx, "Removing stale packager lock", "path", path)

	if err = os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("remove stale lock: %w", err)
	}

	if err = create(path, self); err != nil {
		return nil, err
	}

	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("release lock: %w", err)
	}

	return nil
}

func currentOwner() (owner, error) {
	pid := os.Getpid()

	process, err := ps.FindProcess(pid)
	if err != nil {
		return owner{}, fmt.Errorf("inspect current process: %w", err)
	}

	self := owner{pid: pid}
	if process != nil {
		self.executable = process.Executable()
	}

	return self, nil
}

func create(path string, o owner) error {
	file, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePermissions)
	if err != nil {
		return fmt.Errorf("create lock: %w", err)
	}

	_, err = fmt.Fprintf(file, "%d\n%s\n", o.pid, o.executable)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("write lock: %w", err)
	}

	return nil
}

func read(path string) (owner, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return owner{}, err
	}

	pidLine, executable, _ := strings.Cut(strings.TrimSpace(string(contents)), "\n")

	pid, err := strconv.Atoi(strings.TrimSpace(pidLine))
	if err != nil {
		return owner{}, fmt.Errorf("parse lock pid: %w", err)
	}

	return owner{pid: pid, executable: strings.TrimSpace(executable)}, nil
}

// isRunning reports whether the lock owner is alive. A reused PID running another program does not count.
func isRunning(o owner) bool {
	process, err := ps.FindProcess(o.pid)
	if err != nil || process == nil {
		return false
	}

	return o.executable == "" || process.Executable() == o.executable
}
