package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oshokin/venera-packager/internal/config"
	"github.com/oshokin/venera-packager/internal/logger"
)

// initOptions collects flag values for the init command.
type initOptions struct {
	configPath string
	root       string
	force      bool
}

// newInitCmd builds the command writing the default settings file.
func newInitCmd() *cobra.Command {
	flags := new(initOptions)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: fmt.Sprintf(`Writes the default settings to %s in the project root, or to the file given
with --config. An existing file is kept unless --force is set.`, config.DefaultConfigFilename),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			ctx := logger.WithName(cmd.Context(), "venera-packager")

			path, err := initPath(flags)
			if err != nil {
				return err
			}

			if flags.force {
				if _, statErr := os.Stat(path); statErr == nil {
					logger.Warn(ctx, "Overwriting configuration file ", path)
				}
			}

			if err = config.Init(path, flags.force); err != nil {
				return err
			}

			logger.Infof(ctx, "Configuration written to %s", path)

			return nil
		},
	}

	initCmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path of the file to write")
	initCmd.Flags().StringVarP(&flags.root, "root", "r", "", "project root (default: current directory)")
	initCmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")

	return initCmd
}

// initPath returns the file init writes: --config if given, else the default name in the root.
func initPath(flags *initOptions) (string, error) {
	if flags.configPath != "" {
		return flags.configPath, nil
	}

	root := flags.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("detect project root: %w", err)
		}

		root = wd
	}

	return filepath.Join(root, config.DefaultConfigFilename), nil
}
