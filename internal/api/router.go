package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bcgov/restoration-tracker/internal/domain"
	"github.com/bcgov/restoration-tracker/internal/middleware"
)

// RouterConfig bundles the cross-cutting pieces the router wires around the
// handlers.
type RouterConfig struct {
	Authenticate func(http.Handler) http.Handler
	Decider      middleware.PolicyDecider
	RateLimit    middleware.RateLimitConfig
	CORSOrigins  []string
	Logger       *slog.Logger
}

// NewRouter builds the chi router with the full middleware chain and the
// per-route authorization policies.
func NewRouter(h *Handler, cfg RouterConfig) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimit.RequestsPerSecond > 0 {
		r.Use(middleware.RateLimiter(cfg.RateLimit))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authorize := func(fn middleware.PolicyFunc) func(http.Handler) http.Handler {
		return middleware.Authorize(cfg.Decider, fn, cfg.Logger)
	}

	adminOnly := middleware.StaticPolicy(domain.RequireSystemRoles(
		domain.RoleSystemAdmin, domain.RoleDataAdministrator,
	))
	participantRead := middleware.ProjectPolicy(func(projectID int64) domain.Policy {
		return domain.Any(
			domain.RequireSystemRoles(domain.RoleSystemAdmin, domain.RoleDataAdministrator, domain.RoleMaintainer),
			domain.RequireProjectRoles(projectID, domain.RoleProjectLead, domain.RoleProjectEditor, domain.RoleProjectViewer),
		)
	})
	participantMutate := middleware.ProjectPolicy(func(projectID int64) domain.Policy {
		return domain.Any(
			domain.RequireSystemRoles(domain.RoleSystemAdmin, domain.RoleDataAdministrator),
			domain.RequireProjectRoles(projectID, domain.RoleProjectLead),
		)
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(cfg.Authenticate)

		r.Route("/users", func(r chi.Router) {
			r.With(authorize(middleware.StaticPolicy(domain.RequireAuthenticated()))).
				Get("/self", h.GetSelf)

			r.Group(func(r chi.Router) {
				r.Use(authorize(adminOnly))
				r.Get("/", h.ListUsers)
				r.Post("/", h.CreateUser)
				r.Get("/{userID}", h.GetUser)
				r.Post("/{userID}/roles", h.AssignRoles)
				r.Delete("/{userID}", h.DeleteUser)
			})
		})

		r.With(authorize(adminOnly)).Get("/audit", h.ListAudit)

		r.Route("/projects", func(r chi.Router) {
			r.With(authorize(middleware.StaticPolicy(domain.RequireSystemRoles(
				domain.RoleSystemAdmin, domain.RoleDataAdministrator, domain.RoleProjectCreator,
			)))).Post("/", h.CreateProject)

			r.Route("/{projectID}/participants", func(r chi.Router) {
				r.With(authorize(participantRead)).Get("/", h.ListParticipants)
				r.Group(func(r chi.Router) {
					r.Use(authorize(participantMutate))
					r.Post("/", h.AddParticipant)
					r.Put("/{participationID}", h.ChangeParticipantRole)
					r.Delete("/{participationID}", h.RemoveParticipant)
				})
			})
		})
	})

	return r
}
