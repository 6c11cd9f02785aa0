package repository

import (
	"context"
	"database/sql"

	internaldb "github.com/bcgov/restoration-tracker/internal/db"
	"github.com/bcgov/restoration-tracker/internal/domain"
)

// Store bundles all identity repositories over one database handle and
// implements domain.IdentityStore. A Store built by NewStore issues each
// call directly against the pool; a Store handed to an InTx callback is
// bound to a single transaction.
type Store struct {
	db   DBTX
	pool *sql.DB // nil when bound to a transaction
}

// NewStore creates a Store over a database pool. Use the write pool for
// stores that perform mutations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, pool: db}
}

// Users returns the system user repository.
func (s *Store) Users() domain.SystemUserRepository { return &SystemUserRepo{db: s.db} }

// Roles returns the system role assignment repository.
func (s *Store) Roles() domain.SystemRoleRepository { return &SystemRoleRepo{db: s.db} }

// Participations returns the project participation repository.
func (s *Store) Participations() domain.ParticipationRepository {
	return &ParticipationRepo{db: s.db}
}

// Projects returns the project repository.
func (s *Store) Projects() domain.ProjectRepository { return &ProjectRepo{db: s.db} }

// InTx runs fn against a store bound to one transaction. A nested call joins
// the transaction already in progress.
func (s *Store) InTx(ctx context.Context, fn func(tx domain.IdentityStore) error) error {
	if s.pool == nil {
		return fn(s)
	}
	return internaldb.InTx(ctx, s.pool, func(tx *sql.Tx) error {
		return fn(&Store{db: tx})
	})
}
