package domain

// PolicyKind discriminates the nodes of a policy tree.
type PolicyKind string

// Policy node kinds.
const (
	PolicyAnd           PolicyKind = "and"
	PolicyOr            PolicyKind = "or"
	PolicySystemRole    PolicyKind = "system_role"
	PolicyProjectRole   PolicyKind = "project_role"
	PolicyAuthenticated PolicyKind = "authenticated"
)

// Policy is a serializable tagged-variant tree of authorization
// requirements. Interior nodes combine children with AND or OR; leaves
// require a system role, a project-scoped role, or plain authentication.
// Policies are data, built per route, and evaluation never mutates them.
type Policy struct {
	Kind         PolicyKind      `json:"kind"`
	Children     []Policy        `json:"children,omitempty"`
	SystemRoles  []SystemRoleID  `json:"system_roles,omitempty"`
	ProjectID    int64           `json:"project_id,omitempty"`
	ProjectRoles []ProjectRoleID `json:"project_roles,omitempty"`
}

// All combines requirements so that every one must hold.
// An empty All is vacuously true.
func All(children ...Policy) Policy {
	return Policy{Kind: PolicyAnd, Children: children}
}

// Any combines requirements so that at least one must hold.
// An empty Any is vacuously false.
func Any(children ...Policy) Policy {
	return Policy{Kind: PolicyOr, Children: children}
}

// RequireSystemRoles requires the caller to hold at least one of the given
// system roles.
func RequireSystemRoles(roles ...SystemRoleID) Policy {
	return Policy{Kind: PolicySystemRole, SystemRoles: roles}
}

// RequireProjectRoles requires the caller to hold at least one of the given
// roles on the identified project.
func RequireProjectRoles(projectID int64, roles ...ProjectRoleID) Policy {
	return Policy{Kind: PolicyProjectRole, ProjectID: projectID, ProjectRoles: roles}
}

// RequireAuthenticated requires only that the caller resolves to an active
// system user.
func RequireAuthenticated() Policy {
	return Policy{Kind: PolicyAuthenticated}
}

// Validate checks the tree for unknown kinds and malformed leaves.
func (p Policy) Validate() error {
	switch p.Kind {
	case PolicyAnd, PolicyOr:
		for _, c := range p.Children {
			if err := c.Validate(); err != nil {
				return err
			}
		}
	case PolicySystemRole:
		for _, r := range p.SystemRoles {
			if !ValidSystemRole(r) {
				return ErrValidation("unknown system role id %d in policy", int64(r))
			}
		}
	case PolicyProjectRole:
		if p.ProjectID <= 0 {
			return ErrValidation("project role policy requires a project id")
		}
		for _, r := range p.ProjectRoles {
			if !ValidProjectRole(r) {
				return ErrValidation("unknown project role id %d in policy", int64(r))
			}
		}
	case PolicyAuthenticated:
	default:
		return ErrValidation("unknown policy kind %q", string(p.Kind))
	}
	return nil
}

// Decision is the outcome of evaluating a policy for an actor. Reason is
// diagnostic only; the boundary always reports denials uniformly.
type Decision struct {
	Allowed bool
	Reason  string
}

// Allow builds an allowing decision.
func Allow() Decision { return Decision{Allowed: true} }

// Deny builds a denying decision with a diagnostic reason.
func Deny(reason string) Decision { return Decision{Allowed: false, Reason: reason} }
