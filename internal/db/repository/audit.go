package repository

import (
	"context"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// AuditRepo implements domain.AuditRepository. It always writes through its
// own handle, outside any caller transaction, so audit rows survive
// rollbacks.
type AuditRepo struct {
	db DBTX
}

// NewAuditRepo creates a repository over db.
func NewAuditRepo(db DBTX) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends one audit entry.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_audit (actor_id, actor_identifier, action, status, detail)
		VALUES (?, ?, ?, ?, ?)`,
		e.ActorID, e.ActorIdentifier, e.Action, e.Status, e.Detail)
	return mapDBError(err)
}

// List returns the most recent entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_identifier, action, status, detail, created_at
		FROM security_audit ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorIdentifier, &e.Action, &e.Status, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
