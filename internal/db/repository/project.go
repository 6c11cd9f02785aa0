package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// ProjectRepo implements domain.ProjectRepository.
type ProjectRepo struct {
	db DBTX
}

// Insert creates a project attributed to actorID.
func (r *ProjectRepo) Insert(ctx context.Context, actorID int64, name string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO project (name, create_user)
		VALUES (?, ?)
		RETURNING id, name, create_date`, name, nullInt64(actorID),
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExecution("failed to insert project")
		}
		return nil, mapDBError(err)
	}
	return &p, nil
}

// GetByID returns the project with the given id.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, create_date FROM project WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &p, nil
}
