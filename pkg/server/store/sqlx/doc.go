// Package sqlx provides sqlx-based implementations of the store interfaces
// defined in the parent store package. It works with every dialect
// supported by package db and reuses the requests from package people.
package sqlx
