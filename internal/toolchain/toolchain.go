package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/oshokin/venera-packager/internal/logger"
)

// Command is a single external program invocation.
type Command struct {
	// Name is the executable, looked up in PATH when it has no separator.
	Name string
	// Args are passed verbatim, without a shell.
	Args []string
	// Dir is the working directory of the child process.
	Dir string
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Runner executes commands and reports a non-zero exit as an error.
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports an external program that could not start or exited non-zero.
type ExitError struct {
	// Command is the failed invocation.
	Command Command
	// Code is the exit status, or -1 when the program did not run to completion.
	Code int
	// Err is the underlying exec error.
	Err error
}

// Error implements error.
func (e *ExitError) Error() string {
	if e.Code < 0 {
		return fmt.Sprintf("run %q: %v", e.Command.String(), e.Err)
	}

	return fmt.Sprintf("%q exited with status %d", e.Command.String(), e.Code)
}

// Unwrap returns the underlying exec error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands with os/exec, streaming their output.
type ExecRunner struct {
	// Stdout and Stderr receive the child output; nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process stdout and stderr.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts cmd, waits for it and wraps any failure in *ExitError.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	logger.InfoKV(ctx, "Running external command", "command", cmd.String(), "dir", cmd.Dir)

	//nolint:gosec // The command line comes from the packager configuration.
	child := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	child.Dir = cmd.Dir
	child.Stdout = r.Stdout
	child.Stderr = r.Stderr

	err := child.Run()
	if err == nil {
		return nil
	}

	code := -1

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}

	return &ExitError{
		Command: cmd,
		Code:    code,
		Err:     err,
	}
}
