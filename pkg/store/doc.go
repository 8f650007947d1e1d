// Package store provides the catalog.DocumentStore backends.
//
// Mongo is the production backend. Memory keeps the same semantics in
// process and backs tests and STORE_BACKEND=memory runs.
package store
