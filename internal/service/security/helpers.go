// Package security implements the access-control core: user provisioning,
// policy evaluation, and the participation Lead invariant guard.
package security

import (
	"context"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// logAudit records a security action; failures are logged, never propagated,
// so audit trouble cannot fail the guarded operation itself.
func logAudit(ctx context.Context, audit domain.AuditRepository, actor domain.Actor, action, status, detail string) {
	if audit == nil {
		return
	}
	e := &domain.AuditEntry{
		ActorID:         actor.UserID,
		ActorIdentifier: actor.Identifier,
		Action:          action,
		Status:          status,
	}
	if detail != "" {
		e.Detail = &detail
	}
	_ = audit.Insert(ctx, e)
}
