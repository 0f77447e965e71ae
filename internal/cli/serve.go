package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kolah/routespec/generator"
	"github.com/kolah/routespec/handler"
	"github.com/kolah/routespec/internal/config"
	"github.com/kolah/routespec/model"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API document over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	flags := cmd.Flags()
	flags.String("addr", "", "Listen address (default: :8080)")
	flags.String("json-path", "", "Path of the JSON document (default: /swagger.json)")
	flags.String("yaml-path", "", "Path of the YAML document (default: /swagger.yaml)")
	flags.Bool("show-host", false, "Publish the configured host")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
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

	log := logger(cmd)
	paths := []handler.Option{
		handler.JSONPath(cfg.Serve.JSONPath),
		handler.YAMLPath(cfg.Serve.YAMLPath),
	}
	source := generator.SourceFunc(func(ctx context.Context) ([]model.Endpoint, error) {
		endpoints, err := m.Endpoints(ctx)
		if err != nil {
			return nil, err
		}
		return append(endpoints, handler.DocumentEndpoints(paths...)...), nil
	})
	provider := generator.NewProvider(gen, source)

	// Fail before listening when the document cannot be built.
	if _, err := provider.Result(cmd.Context()); err != nil {
		return fmt.Errorf("generating document: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           handler.New(provider, append(paths, handler.Logger(log))...),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "serving document",
			slog.String("addr", cfg.Serve.Addr),
			slog.String("json", cfg.Serve.JSONPath),
			slog.String("yaml", cfg.Serve.YAMLPath),
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
