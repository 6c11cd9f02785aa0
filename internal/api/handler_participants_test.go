package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

func TestCreateProject(t *testing.T) {
	participations := &stubParticipationService{createResult: &domain.Project{
		ID:        3,
		Name:      "Estuary Restoration",
		CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodPost, "/v1/projects", map[string]string{
		"name": "Estuary Restoration",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Estuary Restoration", participations.gotCreateReq.Name)

	var body struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, int64(3), body.ID)
	assert.Equal(t, "Estuary Restoration", body.Name)
}

func TestCreateProject_ValidationError(t *testing.T) {
	participations := &stubParticipationService{createErr: domain.ErrValidation("project name is required")}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodPost, "/v1/projects", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListParticipants(t *testing.T) {
	participations := &stubParticipationService{listResult: []domain.ProjectParticipant{
		{ID: 1, ProjectID: 3, SystemUserID: 10, ProjectRoleID: domain.RoleProjectLead, ProjectRoleName: "Lead", UserIdentifier: "jsmith"},
		{ID: 2, ProjectID: 3, SystemUserID: 11, ProjectRoleID: domain.RoleProjectViewer, ProjectRoleName: "Viewer", UserIdentifier: "bchan"},
	}}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodGet, "/v1/projects/3/participants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), participations.gotListProjectID)

	var body struct {
		Data []participantResponse `json:"data"`
	}
	decodeBody(t, rec, &body)
	require.Len(t, body.Data, 2)
	assert.Equal(t, "Lead", body.Data[0].ProjectRoleName)
	assert.Equal(t, "bchan", body.Data[1].UserIdentifier)
}

func TestAddParticipant(t *testing.T) {
	participations := &stubParticipationService{}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodPost, "/v1/projects/3/participants", map[string]int64{
		"system_user_id":  10,
		"project_role_id": 2,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(3), participations.gotAddReq.ProjectID)
	assert.Equal(t, int64(10), participations.gotAddReq.SystemUserID)
	assert.Equal(t, domain.RoleProjectEditor, participations.gotAddReq.ProjectRoleID)
}

func TestRemoveParticipant(t *testing.T) {
	participations := &stubParticipationService{}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodDelete, "/v1/projects/3/participants/7", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(7), participations.gotRemoveParticipant)
	assert.Equal(t, int64(3), participations.gotRemoveProject)
}

func TestRemoveParticipant_SoleLeadConflict(t *testing.T) {
	participations := &stubParticipationService{removeErr: domain.ErrConflict("project 3 requires at least one Lead")}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodDelete, "/v1/projects/3/participants/7", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestChangeParticipantRole(t *testing.T) {
	participations := &stubParticipationService{}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodPut, "/v1/projects/3/participants/7", map[string]int64{
		"project_role_id": 1,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(7), participations.gotChangeParticipant)
	assert.Equal(t, int64(3), participations.gotChangeProject)
	assert.Equal(t, domain.RoleProjectLead, participations.gotChangeRole)
}

func TestChangeParticipantRole_WrongProject(t *testing.T) {
	participations := &stubParticipationService{changeErr: domain.ErrValidation("participation 7 does not belong to project 3")}
	router := newTestRouter(t, &stubUserService{}, participations)

	rec := doJSON(t, router, http.MethodPut, "/v1/projects/3/participants/7", map[string]int64{
		"project_role_id": 2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
