package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/rulekit/internal/api"
	"github.com/zjrosen/rulekit/internal/flags"
	"github.com/zjrosen/rulekit/internal/log"
	"github.com/zjrosen/rulekit/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP daemon",
	Long: `Run rulekit as a daemon exposing the component registry and rule chain
resolver over HTTP.

The daemon listens on api.addr (default: 127.0.0.1:7420). With
registry.watch_catalog set, edits to the catalog file invalidate the cached
component set.

Example:
  rulekit serve                          # Start on the configured address
  rulekit serve --addr :8080             # Start on port 8080
  rulekit serve --catalog ./catalog.yaml --watch`,
	RunE: runServe,
}

var (
	serveAddr  string
	serveWatch bool
	serveWarm  bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (overrides api.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload when the catalog changes (overrides registry.watch_catalog)")
	serveCmd.Flags().BoolVar(&serveWarm, "warm", false, "Build the component set before accepting requests")
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if serveWarm || rt.flags.Enabled(flags.FlagWarmOnStart) {
		components, err := rt.registry.GetComponents(ctx)
		if err != nil {
			return fmt.Errorf("warming registry: %w", err)
		}
		log.Info(log.CatRegistry, "registry warmed", "components", len(components))
	}

	if serveWatch || cfg.Registry.WatchCatalog {
		if cfg.Registry.CatalogFile == "" {
			return errors.New("--watch requires a catalog file")
		}
		w, err := watcher.New(watcher.DefaultConfig(cfg.Registry.CatalogFile))
		if err != nil {
			return fmt.Errorf("creating catalog watcher: %w", err)
		}
		defer func() { _ = w.Stop() }()

		changes, err := w.Start()
		if err != nil {
			return fmt.Errorf("starting catalog watcher: %w", err)
		}
		go watcher.InvalidateOnChange(ctx, changes, rt.registry)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.API.Addr
	}

	handlerCfg := api.HandlerConfig{
		Registry:        rt.registry,
		Resolver:        rt.resolver,
		TransportErrors: rt.transport,
		Metrics:         rt.metrics,
		Tracer:          rt.tracing.Tracer(),
	}
	if rt.resources != nil {
		handlerCfg.Resources = rt.resources
	}

	server, err := api.NewServer(api.ServerConfig{Addr: addr, Handler: handlerCfg})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "rulekit listening on %s\n", server.Addr())
	_, _ = fmt.Fprintln(out, "Press Ctrl+C to stop")

	select {
	case sig := <-sigCh:
		_, _ = fmt.Fprintf(out, "\nReceived %s, shutting down...\n", sig)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.ErrorErr(log.CatAPI, "Error stopping API server", err)
	}

	_, _ = fmt.Fprintln(out, "rulekit stopped")
	return nil
}
