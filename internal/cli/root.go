package cli

import (
	"log/slog"

	"github.com/kolah/routespec/internal/config"
	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "routespec",
		Short:   "Routespec - Swagger and OpenAPI documents from route tables",
		Version: "1.0.0",

		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	config.BindFlags(root)
	root.PersistentFlags().BoolP("verbose", "v", false, "Log each processed route")

	root.AddCommand(
		GenerateCommand(),
		ValidateCommand(),
		ServeCommand(),
	)

	return root
}

// logger writes to the command's error stream. Debug output is enabled
// with --verbose.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
