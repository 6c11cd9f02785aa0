package domain

import "context"

type actorKey struct{}

// Actor is the authenticated caller, resolved once per request. It is always
// passed explicitly through context set by the authentication middleware;
// nothing in the core reads ambient global state.
type Actor struct {
	UserID         int64
	UserGUID       *string
	Identifier     string
	IdentitySource IdentitySource
	SystemRoleIDs  []SystemRoleID
}

// HasSystemRole reports whether the actor holds any of the given roles.
func (a Actor) HasSystemRole(ids ...SystemRoleID) bool {
	for _, held := range a.SystemRoleIDs {
		for _, want := range ids {
			if held == want {
				return true
			}
		}
	}
	return false
}

// WithActor stores the authenticated actor in the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext extracts the authenticated actor from the context.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}
