// Package app provides application-level wiring for the restoration
// tracker's access-control service.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/bcgov/restoration-tracker/internal/config"
	"github.com/bcgov/restoration-tracker/internal/db/repository"
	"github.com/bcgov/restoration-tracker/internal/domain"
	"github.com/bcgov/restoration-tracker/internal/service/security"
)

// Deps holds the external dependencies that main() must provide: database
// handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App holds the fully-wired services the router needs, plus the resolved
// service account id that first-login provisioning runs under.
type App struct {
	Users            *security.SystemUserService
	Participations   *security.ParticipationService
	Evaluator        *security.PolicyEvaluator
	ServiceAccountID int64
}

// New wires repositories and services from the provided deps. Mutating
// services ride the write pool; the policy evaluator reads through the read
// pool so authorization checks never queue behind writes.
func New(ctx context.Context, deps Deps) (*App, error) {
	writeStore := repository.NewStore(deps.WriteDB)
	readStore := repository.NewStore(deps.ReadDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)

	users := security.NewSystemUserService(writeStore, auditRepo, deps.Logger)
	participations := security.NewParticipationService(writeStore, auditRepo, deps.Logger)
	evaluator := security.NewPolicyEvaluator(readStore.Participations())

	serviceAccountID, err := resolveServiceAccount(ctx, writeStore, deps.Cfg.ServiceAccountIdentifier)
	if err != nil {
		return nil, err
	}

	if err := seedBootstrapAdmin(ctx, users, serviceAccountID, deps.Logger); err != nil {
		deps.Logger.Warn("bootstrap admin seeding failed", "error", err)
	}

	return &App{
		Users:            users,
		Participations:   participations,
		Evaluator:        evaluator,
		ServiceAccountID: serviceAccountID,
	}, nil
}

// resolveServiceAccount looks up the seeded service account that insert
// attribution falls back to. Its absence means migrations did not run.
func resolveServiceAccount(ctx context.Context, store domain.IdentityStore, identifier string) (int64, error) {
	account, err := store.Users().GetByIdentifier(ctx, identifier, domain.IdentitySourceSystem)
	if err != nil {
		return 0, fmt.Errorf("resolve service account %q: %w", identifier, err)
	}
	if !account.Active() {
		return 0, fmt.Errorf("service account %q is not active", identifier)
	}
	return account.ID, nil
}
