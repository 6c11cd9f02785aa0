package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// systemUserResponse is the wire shape of a system user.
type systemUserResponse struct {
	ID             int64      `json:"id"`
	UserGUID       *string    `json:"user_guid,omitempty"`
	UserIdentifier string     `json:"user_identifier"`
	IdentitySource string     `json:"identity_source"`
	DisplayName    string     `json:"display_name,omitempty"`
	Email          string     `json:"email,omitempty"`
	RecordEndDate  *time.Time `json:"record_end_date,omitempty"`
	RoleIDs        []int64    `json:"role_ids"`
	RoleNames      []string   `json:"role_names"`
}

func systemUserToAPI(u *domain.SystemUser) systemUserResponse {
	roleIDs := make([]int64, len(u.RoleIDs))
	for i, id := range u.RoleIDs {
		roleIDs[i] = int64(id)
	}
	return systemUserResponse{
		ID:             u.ID,
		UserGUID:       u.UserGUID,
		UserIdentifier: u.UserIdentifier,
		IdentitySource: string(u.IdentitySource),
		DisplayName:    u.DisplayName,
		Email:          u.Email,
		RecordEndDate:  u.RecordEndDate,
		RoleIDs:        roleIDs,
		RoleNames:      u.RoleNames,
	}
}

// ListUsers handles GET /v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]systemUserResponse, len(users))
	for i := range users {
		out[i] = systemUserToAPI(&users[i])
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

// GetSelf handles GET /v1/users/self, returning the caller's own record.
func (h *Handler) GetSelf(w http.ResponseWriter, r *http.Request) {
	actor, _ := domain.ActorFromContext(r.Context())
	user, err := h.users.GetByID(r.Context(), actor.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, systemUserToAPI(user))
}

// GetUser handles GET /v1/users/{userID}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, systemUserToAPI(user))
}

type createUserRequest struct {
	UserGUID       *string `json:"user_guid,omitempty"`
	UserIdentifier string  `json:"user_identifier"`
	IdentitySource string  `json:"identity_source"`
	DisplayName    string  `json:"display_name,omitempty"`
	Email          string  `json:"email,omitempty"`
}

// CreateUser handles POST /v1/users: administrative provisioning ahead of a
// user's first login. Idempotent with the login-time flow; an existing active
// record is returned unchanged.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body createUserRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	actor, _ := domain.ActorFromContext(r.Context())
	user, err := h.users.EnsureSystemUser(r.Context(), actor.UserID, domain.EnsureSystemUserRequest{
		UserGUID:       body.UserGUID,
		UserIdentifier: body.UserIdentifier,
		IdentitySource: domain.IdentitySource(body.IdentitySource),
		DisplayName:    body.DisplayName,
		Email:          body.Email,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, systemUserToAPI(user))
}

type assignRolesRequest struct {
	RoleIDs []int64 `json:"role_ids"`
}

// AssignRoles handles POST /v1/users/{userID}/roles.
func (h *Handler) AssignRoles(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}
	var body assignRolesRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	roleIDs := make([]domain.SystemRoleID, len(body.RoleIDs))
	for i, id := range body.RoleIDs {
		roleIDs[i] = domain.SystemRoleID(id)
	}

	actor, _ := domain.ActorFromContext(r.Context())
	if err := h.users.AssignRoles(r.Context(), actor, userID, roleIDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type auditEntryResponse struct {
	ID              int64     `json:"id"`
	ActorID         int64     `json:"actor_id"`
	ActorIdentifier string    `json:"actor_identifier"`
	Action          string    `json:"action"`
	Status          string    `json:"status"`
	Detail          *string   `json:"detail,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListAudit handles GET /v1/audit, returning the most recent security audit
// entries, newest first. An optional ?limit= caps the page size.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, domain.ErrValidation("invalid limit"))
			return
		}
		limit = parsed
	}

	entries, err := h.users.ListAuditLog(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]auditEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = auditEntryResponse{
			ID:              e.ID,
			ActorID:         e.ActorID,
			ActorIdentifier: e.ActorIdentifier,
			Action:          e.Action,
			Status:          e.Status,
			Detail:          e.Detail,
			CreatedAt:       e.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": out})
}

// DeleteUser handles DELETE /v1/users/{userID}: full administrative removal.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}

	actor, _ := domain.ActorFromContext(r.Context())
	if err := h.users.DeleteSystemUser(r.Context(), actor, userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
