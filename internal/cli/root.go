package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"plantao/internal/di"
	"plantao/internal/structures"
	"syscall"

	"github.com/spf13/cobra"
)

// NewRootCommand serves the site and API; subcommands cover maintenance.
func NewRootCommand() *cobra.Command {
	flags := &structures.CliFlags{}

	cmd := &cobra.Command{
		Use:           "plantao",
		Short:         "On-call schedule host: static site plus JSON API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML config file (optional)")
	cmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console at debug level")
	cmd.PersistentFlags().StringVar(&flags.Host, "host", "", "bind host (default 0.0.0.0, env PLANTAO_HOST)")
	cmd.PersistentFlags().IntVar(&flags.Port, "port", 0, "bind port (default 5000, env PLANTAO_PORT)")
	cmd.PersistentFlags().StringVar(&flags.SiteDir, "site-dir", "", "directory holding index.html (default working dir, env PLANTAO_SITE_DIR)")
	cmd.PersistentFlags().StringVar(&flags.DataDir, "data-dir", "", "directory of the JSON record (default <site-dir>/data, env PLANTAO_DATA_DIR)")

	cmd.AddCommand(NewRestoreCommand(flags))

	return cmd
}

func serve(ctx context.Context, flags *structures.CliFlags) error {
	app, err := di.InitApp(flags)
	if err != nil {
		return err
	}
	defer app.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
