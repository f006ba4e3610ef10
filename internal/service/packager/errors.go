package packager

import (
	"errors"
	"fmt"

	"github.com/oshokin/venera-packager/internal/toolchain"
)

// Step names one stage of the pipeline.
type Step string

// Pipeline steps in execution order.
const (
	StepConfig  Step = "load configuration"
	StepLock    Step = "acquire lock"
	StepVersion Step = "resolve version"
	StepBuild   Step = "build bundle"
	StepVerify  Step = "verify bundle"
	StepStage   Step = "stage files"
	StepArchive Step = "create source archive"
	StepSpec    Step = "render spec"
	StepPackage Step = "build package"
	StepCollect Step = "collect artifacts"
)

// Process exit statuses.
const (
	ExitOK             = 0
	ExitFailure        = 1
	ExitBundleNotFound = 2
	ExitToolFailure    = 3
)

var (
	// ErrUsage is returned when no architecture selector is given.
	ErrUsage = errors.New("usage: venera-packager <arch>\n  arch: x64 | arm64")
	// ErrBundleNotFound is returned when the build left no bundle directory.
	ErrBundleNotFound = errors.New("bundle not found")
)

// StepError is a pipeline failure tagged with the step it happened in.
type StepError struct {
	Step Step
	Err  error
}

// Error implements error.
func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

// Unwrap returns the cause.
func (e *StepError) Unwrap() error {
	return e.Err
}

// wrapStep tags err with step; nil stays nil.
func wrapStep(step Step, err error) error {
	if err == nil {
		return nil
	}

	return &StepError{Step: step, Err: err}
}

// ExitCode maps a Run error to the process exit status.
func ExitCode(err error) int {
	var exitErr *toolchain.ExitError

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrBundleNotFound):
		return ExitBundleNotFound
	case errors.As(err, &exitErr):
		return ExitToolFailure
	default:
		return ExitFailure
	}
}
