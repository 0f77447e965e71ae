package cli

import (
	"fmt"
	"os"

	"github.com/kolah/routespec/validate"
	"github.com/spf13/cobra"
)

func ValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a Swagger 2.0 or OpenAPI 3.0 document",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	version, violations, err := validate.New().Rendered(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("validating %s: %w", args[0], err)
	}

	if len(violations) > 0 {
		for _, v := range violations {
			cmd.PrintErrf("  %s\n", v.Error())
		}
		return fmt.Errorf("%s: %d violations", args[0], len(violations))
	}

	cmd.PrintErrf("%s: valid %s document\n", args[0], version)
	return nil
}
