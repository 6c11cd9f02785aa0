package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcgov/restoration-tracker/internal/domain"
	"github.com/bcgov/restoration-tracker/internal/middleware"
)

// stubUserService records calls and returns canned results.
type stubUserService struct {
	ensureResult *domain.SystemUser
	ensureErr    error
	getResult    *domain.SystemUser
	getErr       error
	listResult   []domain.SystemUser
	listErr      error
	assignErr    error
	deleteErr    error
	auditResult  []domain.AuditEntry
	auditErr     error

	gotEnsureActorID int64
	gotEnsureReq     domain.EnsureSystemUserRequest
	gotGetID         int64
	gotAssignUserID  int64
	gotAssignRoles   []domain.SystemRoleID
	gotDeleteUserID  int64
	gotAuditLimit    int
}

func (s *stubUserService) EnsureSystemUser(_ context.Context, actorID int64, req domain.EnsureSystemUserRequest) (*domain.SystemUser, error) {
	s.gotEnsureActorID = actorID
	s.gotEnsureReq = req
	return s.ensureResult, s.ensureErr
}

func (s *stubUserService) GetByID(_ context.Context, id int64) (*domain.SystemUser, error) {
	s.gotGetID = id
	return s.getResult, s.getErr
}

func (s *stubUserService) List(context.Context) ([]domain.SystemUser, error) {
	return s.listResult, s.listErr
}

func (s *stubUserService) AssignRoles(_ context.Context, _ domain.Actor, userID int64, roleIDs []domain.SystemRoleID) error {
	s.gotAssignUserID = userID
	s.gotAssignRoles = roleIDs
	return s.assignErr
}

func (s *stubUserService) DeleteSystemUser(_ context.Context, _ domain.Actor, systemUserID int64) error {
	s.gotDeleteUserID = systemUserID
	return s.deleteErr
}

func (s *stubUserService) ListAuditLog(_ context.Context, limit int) ([]domain.AuditEntry, error) {
	s.gotAuditLimit = limit
	return s.auditResult, s.auditErr
}

// stubParticipationService records calls and returns canned results.
type stubParticipationService struct {
	createResult *domain.Project
	createErr    error
	listResult   []domain.ProjectParticipant
	listErr      error
	addErr       error
	removeErr    error
	changeErr    error

	gotCreateReq         domain.CreateProjectRequest
	gotListProjectID     int64
	gotAddReq            domain.AddParticipantRequest
	gotRemoveParticipant int64
	gotRemoveProject     int64
	gotChangeParticipant int64
	gotChangeProject     int64
	gotChangeRole        domain.ProjectRoleID
}

func (s *stubParticipationService) CreateProject(_ context.Context, _ domain.Actor, req domain.CreateProjectRequest) (*domain.Project, error) {
	s.gotCreateReq = req
	return s.createResult, s.createErr
}

func (s *stubParticipationService) ListParticipants(_ context.Context, projectID int64) ([]domain.ProjectParticipant, error) {
	s.gotListProjectID = projectID
	return s.listResult, s.listErr
}

func (s *stubParticipationService) AddParticipant(_ context.Context, _ domain.Actor, req domain.AddParticipantRequest) error {
	s.gotAddReq = req
	return s.addErr
}

func (s *stubParticipationService) GuardedRemoveParticipant(_ context.Context, _ domain.Actor, participationID, projectID int64) (int64, error) {
	s.gotRemoveParticipant = participationID
	s.gotRemoveProject = projectID
	if s.removeErr != nil {
		return 0, s.removeErr
	}
	return 1, nil
}

func (s *stubParticipationService) GuardedChangeParticipantRole(_ context.Context, _ domain.Actor, participationID, projectID int64, newRoleID domain.ProjectRoleID) (int64, error) {
	s.gotChangeParticipant = participationID
	s.gotChangeProject = projectID
	s.gotChangeRole = newRoleID
	if s.changeErr != nil {
		return 0, s.changeErr
	}
	return 1, nil
}

// allowAllDecider lets every request through authorization.
type allowAllDecider struct{}

func (allowAllDecider) Evaluate(context.Context, domain.Actor, domain.Policy) (domain.Decision, error) {
	return domain.Allow(), nil
}

// testActor is the identity injected by the test authentication middleware.
var testActor = domain.Actor{
	UserID:         42,
	Identifier:     "admin",
	IdentitySource: domain.IdentitySourceIDIR,
	SystemRoleIDs:  []domain.SystemRoleID{domain.RoleSystemAdmin},
}

func newTestRouter(t *testing.T, users UserService, participations ParticipationService) http.Handler {
	t.Helper()
	h := NewHandler(users, participations, nil)
	return NewRouter(h, RouterConfig{
		Authenticate: func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(domain.WithActor(r.Context(), testActor)))
			})
		},
		Decider:     allowAllDecider{},
		CORSOrigins: []string{"*"},
	})
}

func doJSON(t *testing.T, router http.Handler, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

var _ middleware.PolicyDecider = allowAllDecider{}
