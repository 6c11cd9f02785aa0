package security

import (
	"context"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	internaldb "github.com/bcgov/restoration-tracker/internal/db"
	"github.com/bcgov/restoration-tracker/internal/db/repository"
	"github.com/bcgov/restoration-tracker/internal/domain"
)

// testEnv bundles the wired services over one migrated test database.
type testEnv struct {
	store            *repository.Store
	users            *SystemUserService
	participations   *ParticipationService
	serviceAccountID int64
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	store := repository.NewStore(writeDB)
	auditRepo := repository.NewAuditRepo(writeDB)

	account, err := store.Users().GetByIdentifier(context.Background(), "restoration-tracker-api", domain.IdentitySourceSystem)
	require.NoError(t, err)

	return &testEnv{
		store:            store,
		users:            NewSystemUserService(store, auditRepo, nil),
		participations:   NewParticipationService(store, auditRepo, nil),
		serviceAccountID: account.ID,
	}
}

// provisionUser creates an active user through the provisioning flow and
// returns it as an actor for subsequent calls.
func (e *testEnv) provisionUser(t *testing.T, identifier string) domain.Actor {
	t.Helper()
	guid := identifier + "-guid"
	u, err := e.users.EnsureSystemUser(context.Background(), e.serviceAccountID, domain.EnsureSystemUserRequest{
		UserGUID:       &guid,
		UserIdentifier: identifier,
		IdentitySource: domain.IdentitySourceIDIR,
	})
	require.NoError(t, err)
	return domain.Actor{
		UserID:         u.ID,
		UserGUID:       u.UserGUID,
		Identifier:     u.UserIdentifier,
		IdentitySource: u.IdentitySource,
		SystemRoleIDs:  u.RoleIDs,
	}
}

// participantID resolves the participation row id for a user on a project.
func (e *testEnv) participantID(t *testing.T, projectID, userID int64) int64 {
	t.Helper()
	parts, err := e.store.Participations().ListForProject(context.Background(), projectID)
	require.NoError(t, err)
	for _, p := range parts {
		if p.SystemUserID == userID {
			return p.ID
		}
	}
	t.Fatalf("user %d has no participation on project %d", userID, projectID)
	return 0
}
