package rpm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/venera-packager/internal/arch"
	"github.com/oshokin/venera-packager/internal/toolchain"
)

var errTestRpmbuild = errors.New("rpmbuild failed")

// fakeRunner records commands and returns err for every call.
type fakeRunner struct {
	// calls holds every command passed to Run.
	calls []toolchain.Command
	// err is returned from Run.
	err error
}

// Run records cmd.
func (f *fakeRunner) Run(_ context.Context, cmd toolchain.Command) error {
	f.calls = append(f.calls, cmd)

	return f.err
}

// TestToolBuilder_Command overrides _topdir and runs from the project root.
func TestToolBuilder_Command(t *testing.T) {
	t.Parallel()

	runner := new(fakeRunner)
	builder := NewToolBuilder(runner, "rpmbuild")

	req := Request{
		Product:  "venera",
		Version:  "1.2.3",
		Target:   arch.Resolve("x64"),
		Root:     "/src/venera",
		TopDir:   "/src/venera/fedora/rpmbuild",
		SpecPath: "/src/venera/fedora/rpmbuild/SPECS/venera.spec",
	}

	require.NoError(t, builder.Build(context.Background(), req))
	require.Equal(t, []toolchain.Command{{
		Name: "rpmbuild",
		Args: []string{
			"-bb", "/src/venera/fedora/rpmbuild/SPECS/venera.spec",
			"--define", "_topdir /src/venera/fedora/rpmbuild",
		},
		Dir: "/src/venera",
	}}, runner.calls)
}

// TestToolBuilder_Failure wraps the runner error.
func TestToolBuilder_Failure(t *testing.T) {
	t.Parallel()

	builder := NewToolBuilder(&fakeRunner{err: errTestRpmbuild}, "rpmbuild")

	err := builder.Build(context.Background(), Request{})
	require.ErrorIs(t, err, errTestRpmbuild)
}
