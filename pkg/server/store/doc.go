// Package store provides storage abstractions for the people service.
//
// This package defines interfaces for database operations, allowing the
// server and CLI to be decoupled from the specific database access layer.
// Two implementations live in the sub-packages:
//
//   - gorm: GORM over a postgres connection (lib/pq or pgx)
//   - sqlx: plain SQL over sqlx, for every supported dialect
//
// # Usage
//
//	repo := sqlxstore.NewPersonRepository(conn)
//	person, err := repo.FindByID(ctx, 42)
//	if err != nil {
//	    if errors.Is(err, store.ErrPersonNotFound) {
//	        // Handle not found
//	    }
//	}
package store
