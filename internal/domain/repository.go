package domain

import "context"

// SystemUserRepository is the narrow read/write interface over the
// system_user table. Lookups return the active row when one exists,
// otherwise the most recently end-dated row, so callers can decide between
// create and reactivate.
type SystemUserRepository interface {
	GetByGUID(ctx context.Context, guid string) (*SystemUser, error)
	GetByIdentifier(ctx context.Context, identifier string, source IdentitySource) (*SystemUser, error)
	GetByID(ctx context.Context, id int64) (*SystemUser, error)
	List(ctx context.Context) ([]SystemUser, error)

	// Insert creates an active row attributed to actorID. It fails with an
	// ExecutionError unless exactly one row is created.
	Insert(ctx context.Context, actorID int64, u *SystemUser) (*SystemUser, error)
	// Reactivate clears the record end date. It fails with an ExecutionError
	// unless exactly one row transitions.
	Reactivate(ctx context.Context, actorID, id int64) error
	// Deactivate end-dates the record. It fails with an ExecutionError
	// unless exactly one row transitions.
	Deactivate(ctx context.Context, actorID, id int64) error
}

// SystemRoleRepository manages system role assignments.
type SystemRoleRepository interface {
	// AssignRoles adds roles to a user with set semantics: already-held
	// roles are ignored, never duplicated.
	AssignRoles(ctx context.Context, actorID, userID int64, roleIDs []SystemRoleID) error
	DeleteRolesForUser(ctx context.Context, userID int64) error
}

// ParticipationRepository is the read/write interface over the
// project_participation table.
type ParticipationRepository interface {
	ListForProject(ctx context.Context, projectID int64) ([]ProjectParticipant, error)
	ListForUser(ctx context.Context, userID int64) ([]ProjectParticipant, error)
	Insert(ctx context.Context, actorID int64, p *ProjectParticipant) error
	// Delete removes one participation row and returns the affected user and
	// project ids. It fails with an ExecutionError if no row was deleted,
	// because the guard cannot verify a mutation it cannot observe.
	Delete(ctx context.Context, participationID int64) (userID, projectID int64, err error)
	DeleteAllForUser(ctx context.Context, userID int64) error
}

// ProjectRepository is the minimal project access the core needs.
type ProjectRepository interface {
	Insert(ctx context.Context, actorID int64, name string) (*Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
}

// AuditRepository records security-relevant actions. Writes are best-effort
// and never part of the surrounding transaction.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	// List returns the most recent entries, newest first.
	List(ctx context.Context, limit int) ([]AuditEntry, error)
}

// IdentityStore bundles the identity repositories over one database handle
// and scopes them to a single transaction on demand. InTx runs fn against a
// store bound to one transaction: fn returning an error rolls everything
// back, otherwise the transaction commits. Nested InTx calls join the outer
// transaction.
type IdentityStore interface {
	Users() SystemUserRepository
	Roles() SystemRoleRepository
	Participations() ParticipationRepository
	Projects() ProjectRepository

	InTx(ctx context.Context, fn func(tx IdentityStore) error) error
}
