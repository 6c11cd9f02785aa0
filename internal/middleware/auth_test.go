package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s *stubValidator) Validate(context.Context, string) (*JWTClaims, error) {
	return s.claims, s.err
}

type stubProvisioner struct {
	user        *domain.SystemUser
	err         error
	gotActorID  int64
	gotRequest  domain.EnsureSystemUserRequest
	invocations int
}

func (s *stubProvisioner) EnsureSystemUser(_ context.Context, actorID int64, req domain.EnsureSystemUserRequest) (*domain.SystemUser, error) {
	s.invocations++
	s.gotActorID = actorID
	s.gotRequest = req
	return s.user, s.err
}

func runAuth(t *testing.T, validator JWTValidator, provisioner Provisioner, authHeader string) (*httptest.ResponseRecorder, *domain.Actor) {
	t.Helper()

	var captured *domain.Actor
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		if actor, ok := domain.ActorFromContext(r.Context()); ok {
			captured = &actor
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/users/self", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	Authenticate(validator, provisioner, 1, nil)(next).ServeHTTP(rec, req)
	return rec, captured
}

func TestAuthenticate_ResolvesActor(t *testing.T) {
	guid := "g1"
	provisioner := &stubProvisioner{user: &domain.SystemUser{
		ID:             10,
		UserGUID:       &guid,
		UserIdentifier: "jsmith",
		IdentitySource: domain.IdentitySourceIDIR,
		RoleIDs:        []domain.SystemRoleID{domain.RoleProjectCreator},
	}}
	validator := &stubValidator{claims: &JWTClaims{
		Subject:           "g1",
		PreferredUsername: "jsmith",
		IdentityProvider:  "idir",
	}}

	rec, actor := runAuth(t, validator, provisioner, "Bearer some-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, actor)
	assert.Equal(t, int64(10), actor.UserID)
	assert.Equal(t, "jsmith", actor.Identifier)
	assert.Equal(t, []domain.SystemRoleID{domain.RoleProjectCreator}, actor.SystemRoleIDs)

	// Provisioning ran under the service account.
	assert.Equal(t, int64(1), provisioner.gotActorID)
	assert.Equal(t, "jsmith", provisioner.gotRequest.UserIdentifier)
	assert.Equal(t, domain.IdentitySourceIDIR, provisioner.gotRequest.IdentitySource)
	require.NotNil(t, provisioner.gotRequest.UserGUID)
	assert.Equal(t, "g1", *provisioner.gotRequest.UserGUID)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	provisioner := &stubProvisioner{}
	rec, actor := runAuth(t, &stubValidator{}, provisioner, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, actor)
	assert.Zero(t, provisioner.invocations)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	validator := &stubValidator{err: fmt.Errorf("token verification failed")}
	rec, actor := runAuth(t, validator, &stubProvisioner{}, "Bearer bad-token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, actor)
}

func TestAuthenticate_ProvisioningFailure(t *testing.T) {
	validator := &stubValidator{claims: &JWTClaims{
		Subject:           "g1",
		PreferredUsername: "jsmith",
		IdentityProvider:  "idir",
	}}
	provisioner := &stubProvisioner{err: domain.ErrExecution("db down")}

	rec, actor := runAuth(t, validator, provisioner, "Bearer token")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, actor)
}

func TestAuthenticate_SubjectFallbackIdentifier(t *testing.T) {
	provisioner := &stubProvisioner{user: &domain.SystemUser{ID: 3, UserIdentifier: "g1"}}
	validator := &stubValidator{claims: &JWTClaims{
		Subject:          "g1",
		IdentityProvider: "idir",
	}}

	rec, _ := runAuth(t, validator, provisioner, "Bearer token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "g1", provisioner.gotRequest.UserIdentifier)
}

func TestIdentitySourceFromClaim(t *testing.T) {
	cases := map[string]domain.IdentitySource{
		"idir":           domain.IdentitySourceIDIR,
		"IDIR":           domain.IdentitySourceIDIR,
		"bceidbasic":     domain.IdentitySourceBCeIDBasic,
		"bceid-business": domain.IdentitySourceBCeIDBusiness,
		"":               domain.IdentitySourceDatabase,
		"database":       domain.IdentitySourceDatabase,
		"system":         domain.IdentitySourceSystem,
	}
	for claim, want := range cases {
		assert.Equal(t, want, identitySourceFromClaim(claim), claim)
	}

	assert.False(t, identitySourceFromClaim("github").Valid())
}
