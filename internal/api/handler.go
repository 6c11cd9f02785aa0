// Package api provides the HTTP handlers for the restoration tracker's
// access-control REST API.
package api

import (
	"context"
	"log/slog"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// UserService is the system user surface the handlers depend on.
type UserService interface {
	EnsureSystemUser(ctx context.Context, actorID int64, req domain.EnsureSystemUserRequest) (*domain.SystemUser, error)
	GetByID(ctx context.Context, id int64) (*domain.SystemUser, error)
	List(ctx context.Context) ([]domain.SystemUser, error)
	AssignRoles(ctx context.Context, actor domain.Actor, userID int64, roleIDs []domain.SystemRoleID) error
	DeleteSystemUser(ctx context.Context, actor domain.Actor, systemUserID int64) error
	ListAuditLog(ctx context.Context, limit int) ([]domain.AuditEntry, error)
}

// ParticipationService is the project participation surface the handlers
// depend on.
type ParticipationService interface {
	CreateProject(ctx context.Context, actor domain.Actor, req domain.CreateProjectRequest) (*domain.Project, error)
	ListParticipants(ctx context.Context, projectID int64) ([]domain.ProjectParticipant, error)
	AddParticipant(ctx context.Context, actor domain.Actor, req domain.AddParticipantRequest) error
	GuardedRemoveParticipant(ctx context.Context, actor domain.Actor, participationID, projectID int64) (int64, error)
	GuardedChangeParticipantRole(ctx context.Context, actor domain.Actor, participationID, projectID int64, newRoleID domain.ProjectRoleID) (int64, error)
}

// Handler serves the REST API.
type Handler struct {
	users          UserService
	participations ParticipationService
	logger         *slog.Logger
}

// NewHandler creates a Handler with its service dependencies.
func NewHandler(users UserService, participations ParticipationService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{users: users, participations: participations, logger: logger.With("component", "api")}
}
