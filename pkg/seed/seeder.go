package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Sternrassler/catalog-api/pkg/catalog"
)

// Target is the collection seeded products are written to.
type Target interface {
	CountAll(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, products []catalog.Product) error
	DeleteAll(ctx context.Context) error
}

// IndexEnsurer is implemented by targets that maintain indexes.
type IndexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// Config controls a seeding run.
type Config struct {
	// Count is the number of products to insert.
	Count int

	// BatchSize is the number of products per InsertMany call.
	BatchSize int

	// Reseed clears a non-empty collection instead of skipping.
	Reseed bool

	// ProgressEvery logs progress after this many inserted products.
	ProgressEvery int

	// Seed drives the generator. Zero picks one from the clock.
	Seed uint64
}

// DefaultConfig returns the settings of a full-size seed.
func DefaultConfig() Config {
	return Config{
		Count:         100000,
		BatchSize:     1000,
		ProgressEvery: 10000,
	}
}

// Result summarizes a seeding run.
type Result struct {
	Existing int64
	Inserted int
	Skipped  bool
	Duration time.Duration
}

// Seeder fills a collection with generated products.
type Seeder struct {
	target Target
	config Config
	logger zerolog.Logger
}

// NewSeeder creates a seeder. Non-positive sizes fall back to defaults.
func NewSeeder(target Target, config Config, logger zerolog.Logger) *Seeder {
	if target == nil {
		panic("seed: target cannot be nil")
	}
	defaults := DefaultConfig()
	if config.Count < 0 {
		config.Count = 0
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.ProgressEvery <= 0 {
		config.ProgressEvery = defaults.ProgressEvery
	}
	return &Seeder{target: target, config: config, logger: logger}
}

// Run ensures indexes, then inserts Config.Count products in batches. A
// collection that already holds data is left alone unless Reseed is set.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	var res Result

	if ix, ok := s.target.(IndexEnsurer); ok {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return res, fmt.Errorf("ensure indexes: %w", err)
		}
	}

	existing, err := s.target.CountAll(ctx)
	if err != nil {
		return res, fmt.Errorf("count products: %w", err)
	}
	res.Existing = existing

	if existing > 0 {
		if !s.config.Reseed {
			s.logger.Info().
				Int64("existing", existing).
				Msg("Collection already populated, skipping seed (set RESEED_DB=true to force)")
			res.Skipped = true
			return res, nil
		}
		if err := s.target.DeleteAll(ctx); err != nil {
			return res, fmt.Errorf("clear products: %w", err)
		}
		s.logger.Info().Int64("removed", existing).Msg("Cleared existing products")
	}

	seed := s.config.Seed
	if seed == 0 {
		seed = uint64(start.UnixNano())
	}
	gen := NewGenerator(seed, start)

	s.logger.Info().Int("count", s.config.Count).Int("batch_size", s.config.BatchSize).Msg("Seeding products")

	nextProgress := s.config.ProgressEvery
	for res.Inserted < s.config.Count {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		n := min(s.config.BatchSize, s.config.Count-res.Inserted)
		if err := s.target.InsertMany(ctx, gen.Products(n)); err != nil {
			return res, fmt.Errorf("insert batch at %d: %w", res.Inserted, err)
		}
		res.Inserted += n

		if res.Inserted >= nextProgress || res.Inserted == s.config.Count {
			s.logger.Info().
				Int("inserted", res.Inserted).
				Int("total", s.config.Count).
				Msg("Seed progress")
			for nextProgress <= res.Inserted {
				nextProgress += s.config.ProgressEvery
			}
		}
	}

	res.Duration = time.Since(start)
	s.logger.Info().
		Int("inserted", res.Inserted).
		Dur("duration", res.Duration).
		Msg("Seeding complete")
	return res, nil
}
