package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/venera-packager/internal/config"
	"github.com/oshokin/venera-packager/internal/service/packager"
	"github.com/oshokin/venera-packager/internal/version"
)

// options collects flag values for the root command.
type options struct {
	configPath string
	root       string
	builder    string
	skipBuild  bool
	logLevel   string
}

// newRootCmd builds the command tree. run executes the pipeline; tests swap it out.
func newRootCmd(run func(context.Context, *packager.Options) (*packager.Result, error)) *cobra.Command {
	flags := new(options)

	rootCmd := &cobra.Command{
		Use:   "venera-packager <arch>",
		Short: "Build the Venera Linux bundle and package it as an RPM",
		Long: `Builds the Flutter Linux bundle, stages it with the desktop file, icon and
launcher, creates the source tarball, renders the RPM spec and builds the package.

arch is x64 or arm64; any other value is passed to flutter and rpmbuild unchanged.

Exit codes: 0 success, 1 usage or other failure, 2 bundle missing after the build,
3 an external tool failed.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
				return packager.ErrUsage
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Arguments are valid from here on; failures are not usage problems.
			cmd.SilenceUsage = true

			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			_, err := run(ctx, &packager.Options{
				Arch:       args[0],
				Root:       flags.root,
				ConfigPath: flags.configPath,
				Builder:    flags.builder,
				SkipBuild:  flags.skipBuild,
				LogLevel:   flags.logLevel,
			})

			return err
		},
	}

	rootCmd.Flags().StringVarP(&flags.configPath, "config", "c", "",
		fmt.Sprintf("path to configuration file (default: %s in the project root, if present)", config.DefaultConfigFilename))
	rootCmd.Flags().StringVarP(&flags.root, "root", "r", "", "project root (default: current directory)")
	rootCmd.Flags().StringVarP(&flags.builder, "builder", "b", "",
		fmt.Sprintf("package builder: %s or %s", config.BuilderRpmbuild, config.BuilderNative))
	rootCmd.Flags().BoolVar(&flags.skipBuild, "skip-build", false, "do not run flutter; package the existing bundle")
	rootCmd.Flags().StringVarP(&flags.logLevel, "log-level", "l", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newInitCmd())
	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// Execute runs the venera-packager CLI and exits with the status matching the failure.
func Execute() {
	rootCmd := newRootCmd(packager.Run)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(packager.ExitCode(err))
	}
}
