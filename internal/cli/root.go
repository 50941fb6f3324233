package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Eddieg26/gob/internal/config"
	"github.com/Eddieg26/gob/internal/logging"
)

// Execute runs the CLI with the given context, configuration, and logger.
func Execute(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	rootCmd := newRootCommand(cfg, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func newRootCommand(cfg *config.Config, logger logging.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gob",
		Short:         "Asset import pipeline",
		Long:          "gob imports source files under a project's Assets/ directory into content-addressed artifacts, tracking reverse dependencies between them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newImportCommand(cfg, logger))
	return cmd
}
