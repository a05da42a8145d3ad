package main

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

	"github.com/geocoder89/usergraph/internal/config"
	"github.com/geocoder89/usergraph/internal/db"
	"github.com/geocoder89/usergraph/internal/graph"
	httpx "github.com/geocoder89/usergraph/internal/http"
	"github.com/geocoder89/usergraph/internal/observability"
	"github.com/geocoder89/usergraph/internal/repo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "usergraph",
		Short:         "GraphQL API over a user collection",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load the config set up
			cfg, err := config.Load(envFile, cmd.Flags())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return err
			}

			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.Flags().Int("port", 3000, "port for the GraphQL listener")
	cmd.Flags().String("store", config.StoreMongo, "record store: mongo, postgres, redis, badger or memory")
	cmd.Flags().String("admin-addr", "", "address for /metrics, /healthz and /readyz; empty disables")

	return cmd
}

func run(cfg config.Config) error {
	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, "usergraph", cfg.OTLPEndpoint)
	if err != nil {
		// tracing is optional, keep serving without it
		log.Error("tracer init failed", "err", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	store := repo.NewObserved(db.Open(ctx, cfg, log), cfg.Store, prom)

	schema, err := graph.NewSchema(store, log, graph.Options{Introspection: cfg.Introspection})
	if err != nil {
		log.Error("schema setup failed", "err", err)
		return err
	}

	// server set up
	srv := newServer(fmt.Sprintf(":%d", cfg.Port), httpx.NewRouter(log, schema, cfg, prom))
	servers := []*http.Server{srv}

	if cfg.AdminAddr != "" {
		servers = append(servers, newServer(cfg.AdminAddr, httpx.NewAdminRouter(log, store.Ping, reg)))
	}

	errCh := make(chan error, len(servers))
	var runErr error

	for _, s := range servers {
		go func(s *http.Server) {
			log.Info("Server starting", "addr", s.Addr, "env", cfg.Env, "store", cfg.Store)
			err := s.ListenAndServe()

			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("listen %s: %w", s.Addr, err)
			}
		}(s)
	}

	select {
	case <-ctx.Done():
		log.Info("server shutting down")
	case runErr = <-errCh:
		log.Error("server failed", "err", runErr)
	}

	// Graceful shutdown

	shutdownCtx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	for _, s := range servers {
		if err := s.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "addr", s.Addr, "err", err)
		}
	}

	if err := store.Close(shutdownCtx); err != nil {
		log.Error("store close failed", "err", err)
	}

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "err", err)
	}

	log.Info("shutdown complete")

	return runErr
}

func newServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
