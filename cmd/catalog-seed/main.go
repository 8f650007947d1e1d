package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/catalog-api/internal/bootstrap"
	"github.com/Sternrassler/catalog-api/pkg/config"
	"github.com/Sternrassler/catalog-api/pkg/logging"
	"github.com/Sternrassler/catalog-api/pkg/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	count := flag.Int("count", cfg.SeedCount, "number of products to generate")
	batch := flag.Int("batch", cfg.SeedBatchSize, "products per insert batch")
	reseed := flag.Bool("reseed", cfg.ReseedDB, "clear a populated collection before seeding")
	rngSeed := flag.Uint64("seed", 0, "generator seed (0 uses the clock)")
	flag.Parse()

	logging.Setup(logging.Config{
		Level:   logging.LogLevel(cfg.LogLevel),
		Pretty:  cfg.LogPretty,
		Output:  os.Stderr,
		Service: "catalog-seed",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open store")
	}
	defer closeStore(context.Background())

	seeder := seed.NewSeeder(target, seed.Config{
		Count:     *count,
		BatchSize: *batch,
		Reseed:    *reseed,
		Seed:      *rngSeed,
	}, logging.NewLogger("seed"))

	res, err := seeder.Run(ctx)
	if err != nil {
		log.Error().Err(err).Int("inserted", res.Inserted).Msg("Seeding failed")
		closeStore(context.Background())
		os.Exit(1)
	}

	total, err := target.CountAll(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count products")
		return
	}
	log.Info().Int64("total", total).Msg("Collection size")
}
