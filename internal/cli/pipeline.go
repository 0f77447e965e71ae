package cli

import (
	"fmt"

	"github.com/kolah/routespec/adapter/manifest"
	"github.com/kolah/routespec/generator"
	"github.com/kolah/routespec/internal/config"
	"github.com/kolah/routespec/internal/naming"
	"github.com/spf13/cobra"
)

func loadManifest(cfg *config.Config) (*manifest.Manifest, error) {
	if cfg.Routes == "" {
		return nil, fmt.Errorf("route manifest is required (--routes or routes in %s)", config.DefaultFile)
	}
	m, err := manifest.Load(cfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("loading routes: %w", err)
	}
	return m, nil
}

// newGenerator builds a generator from the configuration. Declared
// manifest types and responses are registered so unused ones are still
// published.
func newGenerator(cmd *cobra.Command, cfg *config.Config, m *manifest.Manifest) (*generator.Generator, error) {
	naming.SetAdditionalInitialisms(cfg.Naming.AdditionalInitialisms)

	version, err := cfg.Version()
	if err != nil {
		return nil, err
	}
	info, err := cfg.DocumentInfo()
	if err != nil {
		return nil, err
	}

	opts := []generator.Option{
		generator.WithVersion(version),
		generator.WithInfo(info),
		generator.WithHost(cfg.DocumentHost()),
		generator.WithBasePath(cfg.BasePath),
		generator.WithSchemes(cfg.Schemes...),
		generator.WithTags(cfg.DocumentTags()...),
		generator.WithLogger(logger(cmd)),
	}
	if cfg.Strict {
		opts = append(opts, generator.WithStrict())
	}
	if cfg.StrictCycles {
		opts = append(opts, generator.WithStrictCycles())
	}
	for _, t := range m.Types() {
		opts = append(opts, generator.WithDefinition(t.Name, t.Type))
	}
	for _, r := range m.Responses() {
		opts = append(opts, generator.WithResponse(r.Name, r.Description, r.Type))
	}

	return generator.New(opts...), nil
}
