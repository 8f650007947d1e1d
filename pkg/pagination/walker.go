package pagination

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Offset returns the number of items skipped before page (1-based). It
// saturates at math.MaxInt instead of wrapping.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// TotalPages returns ceil(total / pageSize), or 0 for an empty result.
func TotalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// Config holds walker configuration.
type Config struct {
	// MaxConcurrency is the maximum number of pages fetched in parallel.
	MaxConcurrency int
	// Timeout bounds each page fetch.
	Timeout time.Duration
}

// DefaultConfig returns the default walker configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
		Timeout:        10 * time.Second,
	}
}

// PageFetcher fetches a single 1-based page and reports the total page count.
type PageFetcher[T any] func(ctx context.Context, page int) (items []T, totalPages int, err error)

// Walker fetches every page of a paginated list.
type Walker[T any] struct {
	fetch  PageFetcher[T]
	config Config
}

type pageResult[T any] struct {
	page  int
	items []T
}

// NewWalker creates a walker around fetch.
func NewWalker[T any](fetch PageFetcher[T], config Config) *Walker[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Walker[T]{fetch: fetch, config: config}
}

// FetchAll returns the concatenation of all pages in page order. Any page
// failure aborts the walk and is returned.
func (w *Walker[T]) FetchAll(ctx context.Context) ([]T, error) {
	start := time.Now()

	first, totalPages, err := w.fetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch page 1: %w", err)
	}
	if totalPages <= 1 {
		return first, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pages := make(chan int, totalPages-1)
	for page := 2; page <= totalPages; page++ {
		pages <- page
	}
	close(pages)

	results := make(chan pageResult[T], totalPages-1)
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	workers := min(w.config.MaxConcurrency, totalPages-1)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for page := range pages {
				if ctx.Err() != nil {
					return
				}
				items, _, err := w.fetchPage(ctx, page)
				if err != nil {
					log.Warn().Err(err).Int("worker_id", workerID).Int("page", page).Msg("Page fetch failed")
					errOnce.Do(func() {
						firstErr = fmt.Errorf("fetch page %d: %w", page, err)
						cancel()
					})
					return
				}
				results <- pageResult[T]{page: page, items: items}
			}
		}(i)
	}

	wg.Wait()
	close(results)

	if firstErr != nil {
		return nil, firstErr
	}

	byPage := make([][]T, totalPages+1)
	byPage[1] = first
	for r := range results {
		byPage[r.page] = r.items
	}

	var all []T
	for page := 1; page <= totalPages; page++ {
		all = append(all, byPage[page]...)
	}

	log.Debug().
		Int("pages", totalPages).
		Int("items", len(all)).
		Dur("duration", time.Since(start)).
		Msg("Fetched all pages")

	return all, nil
}

func (w *Walker[T]) fetchPage(ctx context.Context, page int) ([]T, int, error) {
	pageCtx, cancel := context.WithTimeout(ctx, w.config.Timeout)
	defer cancel()
	return w.fetch(pageCtx, page)
}
