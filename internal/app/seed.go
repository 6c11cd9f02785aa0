package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bcgov/restoration-tracker/internal/domain"
	"github.com/bcgov/restoration-tracker/internal/service/security"
)

// seedBootstrapAdmin provisions an initial System Administrator from the
// BOOTSTRAP_ADMIN_IDENTIFIER / BOOTSTRAP_ADMIN_SOURCE environment variables,
// so a fresh deployment has at least one user able to reach the admin
// endpoints. Idempotent: provisioning and role assignment both have
// already-exists semantics.
func seedBootstrapAdmin(ctx context.Context, users *security.SystemUserService, serviceAccountID int64, logger *slog.Logger) error {
	identifier := os.Getenv("BOOTSTRAP_ADMIN_IDENTIFIER")
	if identifier == "" {
		return nil
	}
	source := domain.IdentitySource(os.Getenv("BOOTSTRAP_ADMIN_SOURCE"))
	if source == "" {
		source = domain.IdentitySourceIDIR
	}

	user, err := users.EnsureSystemUser(ctx, serviceAccountID, domain.EnsureSystemUserRequest{
		UserIdentifier: identifier,
		IdentitySource: source,
	})
	if err != nil {
		return fmt.Errorf("provision bootstrap admin: %w", err)
	}

	if user.HasSystemRole(domain.RoleSystemAdmin) {
		return nil
	}

	actor := domain.Actor{UserID: serviceAccountID, Identifier: "bootstrap"}
	if err := users.AssignRoles(ctx, actor, user.ID, []domain.SystemRoleID{domain.RoleSystemAdmin}); err != nil {
		return fmt.Errorf("grant bootstrap admin role: %w", err)
	}

	logger.Info("bootstrap admin provisioned", "user_id", user.ID, "identifier", identifier)
	return nil
}
