package api

import (
	"net/http"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

type participantResponse struct {
	ID              int64  `json:"id"`
	ProjectID       int64  `json:"project_id"`
	SystemUserID    int64  `json:"system_user_id"`
	ProjectRoleID   int64  `json:"project_role_id"`
	ProjectRoleName string `json:"project_role_name"`
	UserIdentifier  string `json:"user_identifier"`
}

func participantToAPI(p domain.ProjectParticipant) participantResponse {
	return participantResponse{
		ID:              p.ID,
		ProjectID:       p.ProjectID,
		SystemUserID:    p.SystemUserID,
		ProjectRoleID:   int64(p.ProjectRoleID),
		ProjectRoleName: p.ProjectRoleName,
		UserIdentifier:  p.UserIdentifier,
	}
}

type createProjectRequest struct {
	Name string `json:"name"`
}

// CreateProject handles POST /v1/projects. The caller becomes the project's
// first Lead.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var body createProjectRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	actor, _ := domain.ActorFromContext(r.Context())
	project, err := h.participations.CreateProject(r.Context(), actor, domain.CreateProjectRequest{Name: body.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":         project.ID,
		"name":       project.Name,
		"created_at": project.CreatedAt,
	})
}

// ListParticipants handles GET /v1/projects/{projectID}/participants.
func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}
	participants, err := h.participations.ListParticipants(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]participantResponse, len(participants))
	for i, p := range participants {
		out[i] = participantToAPI(p)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

type addParticipantRequest struct {
	SystemUserID  int64 `json:"system_user_id"`
	ProjectRoleID int64 `json:"project_role_id"`
}

// AddParticipant handles POST /v1/projects/{projectID}/participants.
func (h *Handler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}
	var body addParticipantRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	actor, _ := domain.ActorFromContext(r.Context())
	if err := h.participations.AddParticipant(r.Context(), actor, domain.AddParticipantRequest{
		ProjectID:     projectID,
		SystemUserID:  body.SystemUserID,
		ProjectRoleID: domain.ProjectRoleID(body.ProjectRoleID),
	}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveParticipant handles
// DELETE /v1/projects/{projectID}/participants/{participationID}.
func (h *Handler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}
	participationID, err := pathID(r, "participationID")
	if err != nil {
		writeError(w, err)
		return
	}

	actor, _ := domain.ActorFromContext(r.Context())
	if _, err := h.participations.GuardedRemoveParticipant(r.Context(), actor, participationID, projectID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changeRoleRequest struct {
	ProjectRoleID int64 `json:"project_role_id"`
}

// ChangeParticipantRole handles
// PUT /v1/projects/{projectID}/participants/{participationID}.
func (h *Handler) ChangeParticipantRole(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathID(r, "projectID")
	if err != nil {
		writeError(w, err)
		return
	}
	participationID, err := pathID(r, "participationID")
	if err != nil {
		writeError(w, err)
		return
	}
	var body changeRoleRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	actor, _ := domain.ActorFromContext(r.Context())
	if _, err := h.participations.GuardedChangeParticipantRole(r.Context(), actor, participationID, projectID, domain.ProjectRoleID(body.ProjectRoleID)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
