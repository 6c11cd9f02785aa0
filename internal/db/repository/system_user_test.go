package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

func TestSystemUserRepo_InsertAndLookups(t *testing.T) {
	store, actorID := openStore(t)
	ctx := context.Background()

	created := insertUser(t, store, actorID, "jsmith")
	assert.Positive(t, created.ID)
	assert.Equal(t, "jsmith", created.UserIdentifier)
	assert.True(t, created.Active())
	assert.Empty(t, created.RoleIDs)

	byGUID, err := store.Users().GetByGUID(ctx, "jsmith-guid")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byGUID.ID)

	byIdent, err := store.Users().GetByIdentifier(ctx, "jsmith", domain.IdentitySourceIDIR)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byIdent.ID)

	// Same identifier under a different source is a different identity.
	_, err = store.Users().GetByIdentifier(ctx, "jsmith", domain.IdentitySourceBCeIDBasic)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSystemUserRepo_GetByID_NotFound(t *testing.T) {
	store, _ := openStore(t)

	_, err := store.Users().GetByID(context.Background(), 9999)
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSystemUserRepo_DeactivateReactivate(t *testing.T) {
	store, actorID := openStore(t)
	ctx := context.Background()

	u := insertUser(t, store, actorID, "jsmith")

	require.NoError(t, store.Users().Deactivate(ctx, actorID, u.ID))
	ended, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, ended.Active())

	// Deactivating an already end-dated row is a failed transition.
	err = store.Users().Deactivate(ctx, actorID, u.ID)
	var execErr *domain.ExecutionError
	assert.ErrorAs(t, err, &execErr)

	require.NoError(t, store.Users().Reactivate(ctx, actorID, u.ID))
	active, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, active.Active())

	err = store.Users().Reactivate(ctx, actorID, u.ID)
	assert.ErrorAs(t, err, &execErr)
}

func TestSystemUserRepo_ActiveRowUniqueness(t *testing.T) {
	store, actorID := openStore(t)
	ctx := context.Background()

	first := insertUser(t, store, actorID, "jsmith")

	// A second active row for the same identifier violates the partial
	// unique index.
	guid := "jsmith-guid"
	_, err := store.Users().Insert(ctx, actorID, &domain.SystemUser{
		UserGUID:       &guid,
		UserIdentifier: "jsmith",
		IdentitySource: domain.IdentitySourceIDIR,
	})
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)

	// Once the first row is end-dated, a fresh active row is allowed.
	require.NoError(t, store.Users().Deactivate(ctx, actorID, first.ID))
	second, err := store.Users().Insert(ctx, actorID, &domain.SystemUser{
		UserGUID:       &guid,
		UserIdentifier: "jsmith",
		IdentitySource: domain.IdentitySourceIDIR,
	})
	require.NoError(t, err)

	// Lookups prefer the active row over the end-dated one.
	got, err := store.Users().GetByGUID(ctx, "jsmith-guid")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.True(t, got.Active())
}

func TestSystemRoleRepo_AssignRolesSetSemantics(t *testing.T) {
	store, actorID := openStore(t)
	ctx := context.Background()

	u := insertUser(t, store, actorID, "jsmith")

	roles := []domain.SystemRoleID{domain.RoleProjectCreator, domain.RoleMaintainer}
	require.NoError(t, store.Roles().AssignRoles(ctx, actorID, u.ID, roles))

	// Re-assigning an already-held role never duplicates it.
	require.NoError(t, store.Roles().AssignRoles(ctx, actorID, u.ID, []domain.SystemRoleID{domain.RoleProjectCreator}))

	got, err := store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, roles, got.RoleIDs)
	assert.Len(t, got.RoleNames, 2)

	require.NoError(t, store.Roles().DeleteRolesForUser(ctx, u.ID))
	got, err = store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.RoleIDs)
}

func TestSystemUserRepo_List(t *testing.T) {
	store, actorID := openStore(t)

	insertUser(t, store, actorID, "alice")
	insertUser(t, store, actorID, "bob")

	users, err := store.Users().List(context.Background())
	require.NoError(t, err)
	// Seeded service account plus the two fixtures.
	assert.Len(t, users, 3)
}
