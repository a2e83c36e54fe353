package sqlx

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/doodlesbykumbi/tdd101-in-go/pkg/server/store"
)

var _ store.HealthStore = (*HealthStore)(nil)

// HealthStore provides health check operations on a sqlx pool
type HealthStore struct {
	db *sqlx.DB
}

// NewHealthStore creates a new HealthStore
func NewHealthStore(db *sqlx.DB) *HealthStore {
	return &HealthStore{db: db}
}

// CheckConnectivity verifies database connectivity
func (s *HealthStore) CheckConnectivity(ctx context.Context) error {
	var one int
	return s.db.GetContext(ctx, &one, "SELECT 1")
}
