// Package seed generates synthetic products and bulk-loads them into a
// document store for local development and load testing.
package seed
