// Package api is the HTTP surface of the catalog service.
//
// Routes (relative to the configured prefix, "/api/v1" by default):
//
//	GET    /products                 paginated, filtered listing
//	POST   /products                 create, 201
//	GET    /products/stats/summary   collection statistics
//	GET    /products/{id}            single product
//	PUT    /products/{id}            partial update
//	DELETE /products/{id}            delete, 204
//
// /health, /ready and /metrics are served without the prefix.
//
// Errors are rendered as {"detail": "...", "errors": [{"field", "message"}]}
// with the status derived from the catalog error kind.
package api
