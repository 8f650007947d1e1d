// Package pagination holds offset/limit page arithmetic and a parallel
// page walker for paginated list endpoints.
//
// Page math:
//
//	offset := pagination.Offset(page, pageSize)       // (page-1)*pageSize
//	pages := pagination.TotalPages(total, pageSize)   // ceil(total/pageSize)
//
// Walking every page of a list:
//
//	walker := pagination.NewWalker(fetch, pagination.DefaultConfig())
//	items, err := walker.FetchAll(ctx)
//
// The walker fetches page 1 to learn the page count, then spreads the
// remaining pages over a bounded worker pool and reassembles the results in
// page order.
package pagination
