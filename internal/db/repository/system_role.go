package repository

import (
	"context"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// SystemRoleRepo implements domain.SystemRoleRepository.
type SystemRoleRepo struct {
	db DBTX
}

// AssignRoles adds roles to a user. INSERT OR IGNORE gives set semantics:
// a role the user already holds is left alone.
func (r *SystemRoleRepo) AssignRoles(ctx context.Context, actorID, userID int64, roleIDs []domain.SystemRoleID) error {
	for _, roleID := range roleIDs {
		_, err := r.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO system_user_role (system_user_id, system_role_id, create_user)
			VALUES (?, ?, ?)`,
			userID, int64(roleID), nullInt64(actorID))
		if err != nil {
			return mapDBError(err)
		}
	}
	return nil
}

// DeleteRolesForUser removes every system role assignment of a user.
func (r *SystemRoleRepo) DeleteRolesForUser(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM system_user_role WHERE system_user_id = ?`, userID)
	return mapDBError(err)
}
