package security

import (
	"context"
	"fmt"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// PolicyEvaluator decides whether an actor satisfies a policy tree. It is
// side-effect free and safe to call speculatively: project-role leaves read
// current participation rows, nothing is cached across calls, so a decision
// never reflects stale role state.
type PolicyEvaluator struct {
	participations domain.ParticipationRepository
}

// NewPolicyEvaluator creates an evaluator backed by a participation lookup.
func NewPolicyEvaluator(participations domain.ParticipationRepository) *PolicyEvaluator {
	return &PolicyEvaluator{participations: participations}
}

// Evaluate walks the policy tree for the given actor. A deny carries the
// failing requirement in Decision.Reason for diagnostics; errors are
// infrastructure failures only, never denials.
func (e *PolicyEvaluator) Evaluate(ctx context.Context, actor domain.Actor, policy domain.Policy) (domain.Decision, error) {
	if err := policy.Validate(); err != nil {
		return domain.Decision{}, err
	}
	// Project roles are looked up at most once per project within a single
	// decision; separate decisions always re-read the store.
	projectRoles := map[int64][]domain.ProjectRoleID{}
	return e.evaluate(ctx, actor, policy, projectRoles)
}

func (e *PolicyEvaluator) evaluate(ctx context.Context, actor domain.Actor, policy domain.Policy, projectRoles map[int64][]domain.ProjectRoleID) (domain.Decision, error) {
	switch policy.Kind {
	case domain.PolicyAnd:
		// Empty AND is vacuously true.
		for _, child := range policy.Children {
			d, err := e.evaluate(ctx, actor, child, projectRoles)
			if err != nil || !d.Allowed {
				return d, err
			}
		}
		return domain.Allow(), nil

	case domain.PolicyOr:
		// Empty OR is vacuously false.
		for _, child := range policy.Children {
			d, err := e.evaluate(ctx, actor, child, projectRoles)
			if err != nil {
				return d, err
			}
			if d.Allowed {
				return d, nil
			}
		}
		return domain.Deny("no alternative requirement satisfied"), nil

	case domain.PolicySystemRole:
		if actor.HasSystemRole(policy.SystemRoles...) {
			return domain.Allow(), nil
		}
		return domain.Deny(fmt.Sprintf("none of the required system roles %v held", policy.SystemRoles)), nil

	case domain.PolicyProjectRole:
		held, err := e.rolesForProject(ctx, actor, policy.ProjectID, projectRoles)
		if err != nil {
			return domain.Decision{}, err
		}
		for _, h := range held {
			for _, want := range policy.ProjectRoles {
				if h == want {
					return domain.Allow(), nil
				}
			}
		}
		return domain.Deny(fmt.Sprintf("none of the required roles %v held on project %d", policy.ProjectRoles, policy.ProjectID)), nil

	case domain.PolicyAuthenticated:
		if actor.UserID > 0 {
			return domain.Allow(), nil
		}
		return domain.Deny("caller is not an active system user"), nil

	default:
		// Validate catches this before evaluation starts.
		return domain.Decision{}, domain.ErrValidation("unknown policy kind %q", string(policy.Kind))
	}
}

// rolesForProject resolves the actor's project roles for one project.
// A user with no participation rows has an empty role set.
func (e *PolicyEvaluator) rolesForProject(ctx context.Context, actor domain.Actor, projectID int64, cache map[int64][]domain.ProjectRoleID) ([]domain.ProjectRoleID, error) {
	if held, ok := cache[projectID]; ok {
		return held, nil
	}

	participants, err := e.participations.ListForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project roles for project %d: %w", projectID, err)
	}

	var held []domain.ProjectRoleID
	for _, p := range participants {
		if p.SystemUserID == actor.UserID {
			held = append(held, p.ProjectRoleID)
		}
	}
	cache[projectID] = held
	return held, nil
}
