package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// PolicyDecider evaluates a policy tree for an actor.
type PolicyDecider interface {
	Evaluate(ctx context.Context, actor domain.Actor, policy domain.Policy) (domain.Decision, error)
}

// PolicyFunc builds the policy to enforce for one request. Route parameters
// (the project id in particular) are only known per-request, so policies are
// constructed lazily.
type PolicyFunc func(r *http.Request) (domain.Policy, error)

// StaticPolicy wraps a fixed policy tree as a PolicyFunc.
func StaticPolicy(policy domain.Policy) PolicyFunc {
	return func(*http.Request) (domain.Policy, error) {
		return policy, nil
	}
}

// ProjectPolicy builds a per-project policy from the projectID route
// parameter. The builder receives the parsed id.
func ProjectPolicy(build func(projectID int64) domain.Policy) PolicyFunc {
	return func(r *http.Request) (domain.Policy, error) {
		projectID, err := strconv.ParseInt(chi.URLParam(r, "projectID"), 10, 64)
		if err != nil || projectID <= 0 {
			return domain.Policy{}, domain.ErrValidation("invalid project id")
		}
		return build(projectID), nil
	}
}

// Authorize enforces a policy before the handler runs. A denial is reported
// to the caller as a uniform 403 with no detail; the failing requirement is
// logged server-side only.
func Authorize(decider PolicyDecider, policyFn PolicyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := domain.ActorFromContext(r.Context())
			if !ok {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			policy, err := policyFn(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"code":    400,
					"message": err.Error(),
				})
				return
			}

			decision, err := decider.Evaluate(r.Context(), actor, policy)
			if err != nil {
				logger.Error("policy evaluation failed", "path", r.URL.Path, "actor_id", actor.UserID, "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"code":    500,
					"message": "internal server error",
				})
				return
			}
			if !decision.Allowed {
				logger.Info("access denied", "path", r.URL.Path, "actor_id", actor.UserID, "reason", decision.Reason)
				writeForbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    403,
		"message": "access denied",
	})
}
