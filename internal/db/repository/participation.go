package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// ParticipationRepo implements domain.ParticipationRepository.
type ParticipationRepo struct {
	db DBTX
}

const participantSelect = `
	SELECT pp.id, pp.project_id, pp.system_user_id, pp.project_role_id, pr.name, su.user_identifier
	FROM project_participation pp
	JOIN project_role pr ON pr.id = pp.project_role_id
	JOIN system_user su ON su.id = pp.system_user_id`

func (r *ParticipationRepo) list(ctx context.Context, query string, args ...any) ([]domain.ProjectParticipant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.ProjectParticipant
	for rows.Next() {
		var (
			p      domain.ProjectParticipant
			roleID int64
		)
		if err := rows.Scan(&p.ID, &p.ProjectID, &p.SystemUserID, &roleID, &p.ProjectRoleName, &p.UserIdentifier); err != nil {
			return nil, err
		}
		p.ProjectRoleID = domain.ProjectRoleID(roleID)
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

// ListForProject returns every participation row of a project.
func (r *ParticipationRepo) ListForProject(ctx context.Context, projectID int64) ([]domain.ProjectParticipant, error) {
	return r.list(ctx, participantSelect+` WHERE pp.project_id = ? ORDER BY pp.id`, projectID)
}

// ListForUser returns every participation row a user holds across projects.
func (r *ParticipationRepo) ListForUser(ctx context.Context, userID int64) ([]domain.ProjectParticipant, error) {
	return r.list(ctx, participantSelect+` WHERE pp.system_user_id = ? ORDER BY pp.project_id, pp.id`, userID)
}

// Insert adds one participation row attributed to actorID.
func (r *ParticipationRepo) Insert(ctx context.Context, actorID int64, p *domain.ProjectParticipant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_participation (project_id, system_user_id, project_role_id, create_user)
		VALUES (?, ?, ?, ?)`,
		p.ProjectID, p.SystemUserID, int64(p.ProjectRoleID), nullInt64(actorID))
	return mapDBError(err)
}

// Delete removes one participation row and reports the affected user and
// project. A delete that surfaces no row is an execution error: the guard
// cannot verify a mutation it cannot observe.
func (r *ParticipationRepo) Delete(ctx context.Context, participationID int64) (userID, projectID int64, err error) {
	err = r.db.QueryRowContext(ctx, `
		DELETE FROM project_participation
		WHERE id = ?
		RETURNING system_user_id, project_id`, participationID,
	).Scan(&userID, &projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, domain.ErrExecution("failed to delete project participant %d", participationID)
		}
		return 0, 0, mapDBError(err)
	}
	return userID, projectID, nil
}

// DeleteAllForUser removes every participation row a user holds.
func (r *ParticipationRepo) DeleteAllForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_participation WHERE system_user_id = ?`, userID)
	return mapDBError(err)
}
