package domain

import "time"

// Audit statuses.
const (
	AuditAllowed = "ALLOWED"
	AuditDenied  = "DENIED"
	AuditError   = "ERROR"
)

// AuditEntry records one security-relevant action.
type AuditEntry struct {
	ID              int64
	ActorID         int64
	ActorIdentifier string
	Action          string
	Status          string // "ALLOWED", "DENIED", "ERROR"
	Detail          *string
	CreatedAt       time.Time
}
