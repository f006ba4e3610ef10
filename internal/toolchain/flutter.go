package toolchain

import (
	"context"
	"fmt"
)

// BuildLinuxBundle fetches dependencies and builds the Linux release bundle of the project in root.
func BuildLinuxBundle(ctx context.Context, runner Runner, flutter, root string) error {
	steps := []Command{
		{Name: flutter, Args: []string{"pub", "get"}, Dir: root},
		{Name: flutter, Args: []string{"build", "linux"}, Dir: root},
	}

	for _, step := range steps {
		if err := runner.Run(ctx, step); err != nil {
			return fmt.Errorf("flutter build: %w", err)
		}
	}

	return nil
}
