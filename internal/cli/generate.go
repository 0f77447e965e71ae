package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kolah/routespec/internal/config"
	"github.com/spf13/cobra"
)

func GenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the API document from a route manifest",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}

	flags := cmd.Flags()
	flags.StringP("output", "o", "", "Output file (default: stdout)")
	flags.StringP("format", "f", "", "Output format: json, yaml")
	flags.Bool("show-host", false, "Publish the configured host")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	m, err := loadManifest(cfg)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cmd, cfg, m)
	if err != nil {
		return fmt.Errorf("creating generator: %w", err)
	}

	endpoints, err := m.Endpoints(cmd.Context())
	if err != nil {
		return err
	}

	res, err := gen.Generate(cmd.Context(), endpoints)
	if err != nil {
		return fmt.Errorf("generating document: %w", err)
	}

	doc := res.Document
	cmd.PrintErrf("Generated %s document: %s v%s\n", doc.Version, doc.Info.Title, doc.Info.Version)
	cmd.PrintErrf("  Paths: %d\n", len(doc.Paths))
	cmd.PrintErrf("  Definitions: %d\n", len(doc.Definitions))
	for _, v := range res.Violations {
		cmd.PrintErrf("Warning: %s\n", v.Error())
	}

	out := res.JSON
	if cfg.Format == "yaml" {
		out = res.YAML
	}

	if cfg.Output == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}

	if dir := filepath.Dir(cfg.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(cfg.Output, out, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cfg.Output, err)
	}
	cmd.PrintErrf("Written: %s\n", cfg.Output)
	return nil
}
