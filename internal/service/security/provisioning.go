package security

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// SystemUserService reconciles external identities with internal system user
// records and administers their lifecycle.
type SystemUserService struct {
	store  domain.IdentityStore
	audit  domain.AuditRepository
	logger *slog.Logger
}

// NewSystemUserService creates a new SystemUserService.
func NewSystemUserService(store domain.IdentityStore, audit domain.AuditRepository, logger *slog.Logger) *SystemUserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemUserService{store: store, audit: audit, logger: logger.With("component", "system-user")}
}

// EnsureSystemUser resolves an external identity to an active system user,
// creating or reactivating as necessary. Repeated calls with the same
// identity are idempotent and never produce a second active row.
//
// The record moves through three states: Absent (no row), ActiveExisting
// (record end date is null), and InactiveExisting (end-dated). Absent
// requires an acting system user to attribute the insert to; a missing
// actor is a server misconfiguration, not a caller mistake.
func (s *SystemUserService) EnsureSystemUser(ctx context.Context, actorID int64, req domain.EnsureSystemUserRequest) (*domain.SystemUser, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	identifier := req.NormalizedIdentifier()

	existing, err := s.lookup(ctx, req.UserGUID, identifier, req.IdentitySource)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil: // Absent
		if actorID <= 0 {
			return nil, domain.ErrExecution("cannot identify acting system user")
		}
		created, err := s.store.Users().Insert(ctx, actorID, &domain.SystemUser{
			UserGUID:       req.UserGUID,
			UserIdentifier: identifier,
			IdentitySource: req.IdentitySource,
			DisplayName:    req.DisplayName,
			Email:          req.Email,
		})
		if err != nil {
			return nil, err
		}
		s.logger.Info("provisioned system user", "user_id", created.ID, "identity_source", string(created.IdentitySource))
		return created, nil

	case existing.Active(): // ActiveExisting
		return existing, nil

	default: // InactiveExisting
		if err := s.store.Users().Reactivate(ctx, actorID, existing.ID); err != nil {
			return nil, err
		}
		refreshed, err := s.store.Users().GetByID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		s.logger.Info("reactivated system user", "user_id", refreshed.ID)
		return refreshed, nil
	}
}

// lookup resolves the existing record by GUID when present, otherwise by
// (identifier, source). Not-found is a normal outcome; every other error is
// an infrastructure failure and propagates unchanged.
func (s *SystemUserService) lookup(ctx context.Context, guid *string, identifier string, source domain.IdentitySource) (*domain.SystemUser, error) {
	var (
		existing *domain.SystemUser
		err      error
	)
	if guid != nil && *guid != "" {
		existing, err = s.store.Users().GetByGUID(ctx, *guid)
	} else {
		existing, err = s.store.Users().GetByIdentifier(ctx, identifier, source)
	}
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return existing, nil
}

// GetByID returns a system user by internal id.
func (s *SystemUserService) GetByID(ctx context.Context, id int64) (*domain.SystemUser, error) {
	return s.store.Users().GetByID(ctx, id)
}

// List returns all system users.
func (s *SystemUserService) List(ctx context.Context) ([]domain.SystemUser, error) {
	return s.store.Users().List(ctx)
}

// AssignRoles grants system roles to a user with set semantics.
func (s *SystemUserService) AssignRoles(ctx context.Context, actor domain.Actor, userID int64, roleIDs []domain.SystemRoleID) error {
	if userID <= 0 {
		return domain.ErrValidation("system user id is required")
	}
	for _, id := range roleIDs {
		if !domain.ValidSystemRole(id) {
			return domain.ErrValidation("unknown system role id %d", int64(id))
		}
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Active() {
		return domain.ErrValidation("user is not active")
	}

	if err := s.store.Roles().AssignRoles(ctx, actor.UserID, userID, roleIDs); err != nil {
		return err
	}
	logAudit(ctx, s.audit, actor, "ASSIGN_SYSTEM_ROLES", domain.AuditAllowed, "")
	return nil
}
