package security

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// ParticipationService manages project participation rows and guards the
// structural invariant that no guarded mutation may leave a project without
// a Lead.
//
// Each guarded operation runs pre-check, mutation, and post-check inside one
// transaction owned by this service. An invariant violation rolls the whole
// mutation back, so the committed state never regresses. The guard does not
// repair projects that were already leadless before the operation began.
type ParticipationService struct {
	store  domain.IdentityStore
	audit  domain.AuditRepository
	logger *slog.Logger
}

// NewParticipationService creates a new ParticipationService.
func NewParticipationService(store domain.IdentityStore, audit domain.AuditRepository, logger *slog.Logger) *ParticipationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParticipationService{store: store, audit: audit, logger: logger.With("component", "participation")}
}

// CreateProject creates a project and enrolls the creator as its first Lead,
// in one transaction. Projects are born satisfying the Lead invariant.
func (s *ParticipationService) CreateProject(ctx context.Context, actor domain.Actor, req domain.CreateProjectRequest) (*domain.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var project *domain.Project
	err := s.store.InTx(ctx, func(tx domain.IdentityStore) error {
		created, err := tx.Projects().Insert(ctx, actor.UserID, req.Name)
		if err != nil {
			return err
		}
		if err := tx.Participations().Insert(ctx, actor.UserID, &domain.ProjectParticipant{
			ProjectID:     created.ID,
			SystemUserID:  actor.UserID,
			ProjectRoleID: domain.RoleProjectLead,
		}); err != nil {
			return err
		}
		project = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	logAudit(ctx, s.audit, actor, "CREATE_PROJECT", domain.AuditAllowed, "")
	return project, nil
}

// ListParticipants returns every participation row of a project.
func (s *ParticipationService) ListParticipants(ctx context.Context, projectID int64) ([]domain.ProjectParticipant, error) {
	if projectID <= 0 {
		return nil, domain.ErrValidation("project id is required")
	}
	return s.store.Participations().ListForProject(ctx, projectID)
}

// AddParticipant adds a user to a project with one role.
func (s *ParticipationService) AddParticipant(ctx context.Context, actor domain.Actor, req domain.AddParticipantRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	err := s.store.InTx(ctx, func(tx domain.IdentityStore) error {
		if _, err := tx.Projects().GetByID(ctx, req.ProjectID); err != nil {
			return err
		}
		user, err := tx.Users().GetByID(ctx, req.SystemUserID)
		if err != nil {
			return err
		}
		if !user.Active() {
			return domain.ErrValidation("user is not active")
		}
		return tx.Participations().Insert(ctx, actor.UserID, &domain.ProjectParticipant{
			ProjectID:     req.ProjectID,
			SystemUserID:  req.SystemUserID,
			ProjectRoleID: req.ProjectRoleID,
		})
	})
	if err != nil {
		return err
	}

	logAudit(ctx, s.audit, actor, "ADD_PARTICIPANT", domain.AuditAllowed, "")
	return nil
}

// GuardedRemoveParticipant deletes one participation row, refusing to commit
// a deletion that would leave the project without a Lead. Returns the
// affected user id.
func (s *ParticipationService) GuardedRemoveParticipant(ctx context.Context, actor domain.Actor, participationID, projectID int64) (int64, error) {
	userID, err := s.guardedMutation(ctx, actor, projectID, participationID, nil)
	if err != nil {
		logAudit(ctx, s.audit, actor, "REMOVE_PARTICIPANT", auditStatus(err), err.Error())
		return 0, err
	}
	logAudit(ctx, s.audit, actor, "REMOVE_PARTICIPANT", domain.AuditAllowed, "")
	return userID, nil
}

// GuardedChangeParticipantRole replaces a participant's role, modelled as
// delete-then-recreate so the invariant check brackets the whole logical
// role change. Returns the affected user id.
func (s *ParticipationService) GuardedChangeParticipantRole(ctx context.Context, actor domain.Actor, participationID, projectID int64, newRoleID domain.ProjectRoleID) (int64, error) {
	if !domain.ValidProjectRole(newRoleID) {
		return 0, domain.ErrValidation("unknown project role id %d", int64(newRoleID))
	}

	userID, err := s.guardedMutation(ctx, actor, projectID, participationID, &newRoleID)
	if err != nil {
		logAudit(ctx, s.audit, actor, "CHANGE_PARTICIPANT_ROLE", auditStatus(err), err.Error())
		return 0, err
	}
	logAudit(ctx, s.audit, actor, "CHANGE_PARTICIPANT_ROLE", domain.AuditAllowed, "")
	return userID, nil
}

// guardedMutation is the shared two-phase guard. With a nil newRoleID the
// mutation is a removal; otherwise the old row is deleted and a replacement
// row with the new role is inserted before the post-check runs.
func (s *ParticipationService) guardedMutation(ctx context.Context, actor domain.Actor, projectID, participationID int64, newRoleID *domain.ProjectRoleID) (int64, error) {
	if projectID <= 0 {
		return 0, domain.ErrValidation("project id is required")
	}
	if participationID <= 0 {
		return 0, domain.ErrValidation("participation id is required")
	}

	var affectedUserID int64
	err := s.store.InTx(ctx, func(tx domain.IdentityStore) error {
		before, err := tx.Participations().ListForProject(ctx, projectID)
		if err != nil {
			return err
		}
		hadLeadBefore := domain.HasProjectLead(before)

		userID, deletedProjectID, err := tx.Participations().Delete(ctx, participationID)
		if err != nil {
			return err
		}
		if deletedProjectID != projectID {
			return domain.ErrValidation("participant %d does not belong to project %d", participationID, projectID)
		}

		if newRoleID != nil {
			if err := tx.Participations().Insert(ctx, actor.UserID, &domain.ProjectParticipant{
				ProjectID:     projectID,
				SystemUserID:  userID,
				ProjectRoleID: *newRoleID,
			}); err != nil {
				return err
			}
		}

		// Only guard regressions: a project that was already leadless before
		// this operation is left as it was.
		if hadLeadBefore {
			after, err := tx.Participations().ListForProject(ctx, projectID)
			if err != nil {
				return err
			}
			if !domain.HasProjectLead(after) {
				return domain.ErrConflict("cannot remove or change this participant: it is the only Lead for project %d", projectID)
			}
		}

		affectedUserID = userID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affectedUserID, nil
}

// auditStatus classifies an error for the audit trail.
func auditStatus(err error) string {
	var conflict *domain.ConflictError
	var denied *domain.AccessDeniedError
	if errors.As(err, &conflict) || errors.As(err, &denied) {
		return domain.AuditDenied
	}
	return domain.AuditError
}
