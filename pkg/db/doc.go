// Package db provides the PostgreSQL connection pool, embedded schema
// migrations and a small transaction helper used by the stores.
package db
