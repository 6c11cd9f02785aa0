package domain

import (
	"strings"
	"time"
)

// IdentitySource names the identity provider a system user originates from.
type IdentitySource string

// Known identity sources.
const (
	IdentitySourceDatabase      IdentitySource = "DATABASE"
	IdentitySourceIDIR          IdentitySource = "IDIR"
	IdentitySourceBCeIDBasic    IdentitySource = "BCEID_BASIC"
	IdentitySourceBCeIDBusiness IdentitySource = "BCEID_BUSINESS"
	IdentitySourceSystem        IdentitySource = "SYSTEM"
)

// Valid reports whether the identity source is one of the known values.
func (s IdentitySource) Valid() bool {
	switch s {
	case IdentitySourceDatabase, IdentitySourceIDIR, IdentitySourceBCeIDBasic,
		IdentitySourceBCeIDBusiness, IdentitySourceSystem:
		return true
	}
	return false
}

// SystemUser is an internal user record reconciled against an external
// identity. A nil RecordEndDate means the user is active; a timestamp means
// the record was soft-deleted and may later be reactivated. Rows are never
// hard-deleted.
type SystemUser struct {
	ID             int64
	UserGUID       *string // nil for legacy/non-federated accounts
	UserIdentifier string  // stored lowercased
	IdentitySource IdentitySource
	DisplayName    string
	Email          string
	RecordEndDate  *time.Time
	RoleIDs        []SystemRoleID
	RoleNames      []string
}

// Active reports whether the record has not been end-dated.
func (u *SystemUser) Active() bool { return u.RecordEndDate == nil }

// HasSystemRole reports whether the user holds any of the given roles.
func (u *SystemUser) HasSystemRole(ids ...SystemRoleID) bool {
	for _, held := range u.RoleIDs {
		for _, want := range ids {
			if held == want {
				return true
			}
		}
	}
	return false
}

// EnsureSystemUserRequest holds the external identity to reconcile against
// an internal system user record.
type EnsureSystemUserRequest struct {
	UserGUID       *string
	UserIdentifier string
	IdentitySource IdentitySource
	DisplayName    string
	Email          string
}

// Validate checks that the request is well-formed.
func (r *EnsureSystemUserRequest) Validate() error {
	if strings.TrimSpace(r.UserIdentifier) == "" {
		return ErrValidation("user identifier is required")
	}
	if !r.IdentitySource.Valid() {
		return ErrValidation("unknown identity source %q", string(r.IdentitySource))
	}
	return nil
}

// NormalizedIdentifier returns the identifier trimmed and lowercased, the
// canonical form used for lookups and storage.
func (r *EnsureSystemUserRequest) NormalizedIdentifier() string {
	return strings.ToLower(strings.TrimSpace(r.UserIdentifier))
}
