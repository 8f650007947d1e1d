// Package catalog implements the product catalog core: query building,
// cached reads and cache-invalidating writes.
//
// Reads go through Engine, which serves List, Get and Stats from the cache
// when possible and otherwise queries the DocumentStore and writes the
// result through:
//
//	engine := catalog.NewEngine(store, cacheStore, catalog.DefaultConfig())
//	page, err := engine.List(ctx, catalog.DefaultListParams(50))
//
// Writes go through Coordinator, which persists the change and then drops
// every cached listing, the stats summary and the affected detail entry:
//
//	coord := catalog.NewCoordinator(store, cacheStore, catalog.DefaultConfig())
//	p, err := coord.Create(ctx, input)
//
// Errors carry one of ErrInvalidArgument, ErrNotFound, ErrConflict or
// ErrUnavailable; match them with errors.Is. Cache failures never surface
// as errors.
package catalog
