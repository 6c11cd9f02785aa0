package security

import (
	"context"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// DeleteSystemUser administratively removes a user: all project
// participations, all system roles, and finally the user record itself
// (soft-deleted, never hard-deleted).
//
// Unlike the single-project guard, the Lead check here is a hard pre-flight
// across every project the user participates in. It runs before any mutation
// because an administrative removal has no two-phase correction option: if
// the user is the sole Lead anywhere, nothing is touched.
func (s *SystemUserService) DeleteSystemUser(ctx context.Context, actor domain.Actor, systemUserID int64) error {
	if systemUserID <= 0 {
		return domain.ErrValidation("system user id is required")
	}

	err := s.store.InTx(ctx, func(tx domain.IdentityStore) error {
		user, err := tx.Users().GetByID(ctx, systemUserID)
		if err != nil {
			return err
		}
		if !user.Active() {
			return domain.ErrValidation("user is not active")
		}

		participations, err := tx.Participations().ListForUser(ctx, systemUserID)
		if err != nil {
			return err
		}

		// Pre-flight: every project where the user holds Lead must keep
		// another Lead after removal.
		for _, p := range participations {
			if p.ProjectRoleID != domain.RoleProjectLead {
				continue
			}
			all, err := tx.Participations().ListForProject(ctx, p.ProjectID)
			if err != nil {
				return err
			}
			if !domain.HasOtherProjectLead(all, systemUserID) {
				return domain.ErrConflict("cannot delete system user %d: sole Lead for project %d", systemUserID, p.ProjectID)
			}
		}

		if err := tx.Participations().DeleteAllForUser(ctx, systemUserID); err != nil {
			return err
		}
		if err := tx.Roles().DeleteRolesForUser(ctx, systemUserID); err != nil {
			return err
		}
		return tx.Users().Deactivate(ctx, actor.UserID, systemUserID)
	})
	if err != nil {
		logAudit(ctx, s.audit, actor, "DELETE_SYSTEM_USER", auditStatus(err), err.Error())
		return err
	}

	s.logger.Info("deactivated system user", "user_id", systemUserID)
	logAudit(ctx, s.audit, actor, "DELETE_SYSTEM_USER", domain.AuditAllowed, "")
	return nil
}

// ListAuditLog returns the most recent security audit entries, newest first.
// A non-positive limit falls back to the repository default.
func (s *SystemUserService) ListAuditLog(ctx context.Context, limit int) ([]domain.AuditEntry, error) {
	return s.audit.List(ctx, limit)
}
