package domain

import "time"

// Project is the minimal project shape the access-control core needs.
// Everything else about projects belongs to the excluded CRUD surface.
type Project struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// ProjectParticipant is one role-holding membership of a system user on a
// project. A role change is modelled as delete-then-recreate, never an
// in-place update, so one row is one membership for its whole lifetime.
type ProjectParticipant struct {
	ID              int64
	ProjectID       int64
	SystemUserID    int64
	ProjectRoleID   ProjectRoleID
	ProjectRoleName string
	UserIdentifier  string
}

// HasProjectLead reports whether any participation row holds the Lead role.
// A project with zero rows has no Lead.
func HasProjectLead(participants []ProjectParticipant) bool {
	for _, p := range participants {
		if p.ProjectRoleID == RoleProjectLead {
			return true
		}
	}
	return false
}

// HasOtherProjectLead reports whether a participant other than userID holds
// the Lead role.
func HasOtherProjectLead(participants []ProjectParticipant, userID int64) bool {
	for _, p := range participants {
		if p.ProjectRoleID == RoleProjectLead && p.SystemUserID != userID {
			return true
		}
	}
	return false
}

// AddParticipantRequest holds parameters for adding a user to a project.
type AddParticipantRequest struct {
	ProjectID     int64
	SystemUserID  int64
	ProjectRoleID ProjectRoleID
}

// Validate checks that the request is well-formed.
func (r *AddParticipantRequest) Validate() error {
	if r.ProjectID <= 0 {
		return ErrValidation("project id is required")
	}
	if r.SystemUserID <= 0 {
		return ErrValidation("system user id is required")
	}
	if !ValidProjectRole(r.ProjectRoleID) {
		return ErrValidation("unknown project role id %d", int64(r.ProjectRoleID))
	}
	return nil
}

// CreateProjectRequest holds parameters for creating a project. The creator
// is enrolled as the project's first Lead.
type CreateProjectRequest struct {
	Name string
}

// Validate checks that the request is well-formed.
func (r *CreateProjectRequest) Validate() error {
	if r.Name == "" {
		return ErrValidation("project name is required")
	}
	return nil
}
