package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Sternrassler/catalog-api/internal/bootstrap"
	"github.com/Sternrassler/catalog-api/pkg/api"
	"github.com/Sternrassler/catalog-api/pkg/cache"
	"github.com/Sternrassler/catalog-api/pkg/catalog"
	"github.com/Sternrassler/catalog-api/pkg/config"
	"github.com/Sternrassler/catalog-api/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.LogLevel),
		Pretty:  cfg.LogPretty,
		Output:  os.Stderr,
		Service: "catalog-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// application holds the wired service and its resources.
type application struct {
	handler    http.Handler
	cache      cache.Store
	closeStore func(context.Context) error
}

func newApplication(ctx context.Context, cfg config.Config) (*application, error) {
	logger := logging.NewLogger("main")

	docs, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c := bootstrap.OpenCache(ctx, cfg, logger)

	engineCfg := bootstrap.EngineConfig(cfg)
	handler := api.NewRouter(api.Deps{
		Reader: catalog.NewEngine(docs, c, engineCfg),
		Writer: catalog.NewCoordinator(docs, c, engineCfg),
		Store:  docs,
		Cache:  c,
	}, api.Options{
		Prefix:          cfg.APIPrefix,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultPageSize: cfg.PageSizeDefault,
	})

	return &application{handler: handler, cache: c, closeStore: closeStore}, nil
}

func (a *application) close(ctx context.Context) {
	if err := a.cache.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close cache")
	}
	if err := a.closeStore(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to close store")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("prefix", cfg.APIPrefix).Msg("Starting catalog API")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		app.close(shutdownCtx)
		return err
	})

	return g.Wait()
}
