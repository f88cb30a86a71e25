// Package postgresql implements the sitesmith storage interface on
// PostgreSQL.
package postgresql

import (
	"context"
	"database/sql"

	"github.com/sitesmith/sitesmith/internal/cmssrv/cmscommon"
	"github.com/sitesmith/sitesmith/internal/cmssrv/db/dberror"
	"github.com/sitesmith/sitesmith/internal/common/apperrors"
	"github.com/sitesmith/sitesmith/internal/common/uuid"
)

// Store is the PostgreSQL-backed record store.
type Store struct {
	db *sql.DB
}

// New creates a Store on top of an open connection pool.
func New(pool *sql.DB) *Store {
	return &Store{db: pool}
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.db.Close()
}

func (s *Store) conn() *sql.DB {
	return s.db
}

// userIDFromContext resolves the authenticated user every record
// operation is scoped to.
func userIDFromContext(ctx context.Context) (uuid.UUID, apperrors.Error) {
	uc := cmscommon.GetUserContext(ctx)
	if uc == nil || uc.UserID == uuid.Nil {
		return uuid.Nil, dberror.ErrMissingUserContext
	}
	return uc.UserID, nil
}
