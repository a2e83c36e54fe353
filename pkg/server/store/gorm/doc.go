// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// GORM is only used with the postgres dialects; see db.Gorm for sharing a
// sqlx pool with it.
package gorm
