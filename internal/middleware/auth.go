package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bcgov/restoration-tracker/internal/domain"
)

// Provisioner resolves a validated external identity to an active system
// user, creating or reactivating the record as needed.
type Provisioner interface {
	EnsureSystemUser(ctx context.Context, actorID int64, req domain.EnsureSystemUserRequest) (*domain.SystemUser, error)
}

// Authenticate validates the Bearer token, resolves the caller to a system
// user just-in-time, and stores the actor in the request context. First
// login provisions the record; the insert is attributed to the service
// account identified by serviceAccountID.
func Authenticate(validator JWTValidator, provisioner Provisioner, serviceAccountID int64, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeUnauthorized(w, "missing bearer token")
				return
			}

			claims, err := validator.Validate(r.Context(), strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				logger.Debug("token rejected", "error", err)
				writeUnauthorized(w, "invalid token")
				return
			}

			req, err := identityRequest(claims)
			if err != nil {
				logger.Warn("token claims unusable", "error", err)
				writeUnauthorized(w, "invalid token")
				return
			}

			user, err := provisioner.EnsureSystemUser(r.Context(), serviceAccountID, req)
			if err != nil {
				logger.Error("resolve system user", "identifier", req.UserIdentifier, "error", err)
				writeUnauthorized(w, "unable to resolve system user")
				return
			}

			ctx := domain.WithActor(r.Context(), domain.Actor{
				UserID:         user.ID,
				UserGUID:       user.UserGUID,
				Identifier:     user.UserIdentifier,
				IdentitySource: user.IdentitySource,
				SystemRoleIDs:  user.RoleIDs,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// identityRequest maps token claims onto a provisioning request. The subject
// is the stable GUID; preferred_username falls back to the subject when the
// IdP does not send one.
func identityRequest(claims *JWTClaims) (domain.EnsureSystemUserRequest, error) {
	source := identitySourceFromClaim(claims.IdentityProvider)
	if !source.Valid() {
		return domain.EnsureSystemUserRequest{}, domain.ErrValidation("unknown identity provider %q", claims.IdentityProvider)
	}

	identifier := claims.PreferredUsername
	if identifier == "" {
		identifier = claims.Subject
	}
	if identifier == "" {
		return domain.EnsureSystemUserRequest{}, domain.ErrValidation("token carries no usable identifier")
	}

	req := domain.EnsureSystemUserRequest{
		UserIdentifier: identifier,
		IdentitySource: source,
	}
	if claims.Subject != "" {
		guid := claims.Subject
		req.UserGUID = &guid
	}
	if claims.Name != nil {
		req.DisplayName = *claims.Name
	}
	if claims.Email != nil {
		req.Email = *claims.Email
	}
	return req, nil
}

func identitySourceFromClaim(provider string) domain.IdentitySource {
	switch strings.ToLower(provider) {
	case "idir":
		return domain.IdentitySourceIDIR
	case "bceidbasic", "bceid-basic":
		return domain.IdentitySourceBCeIDBasic
	case "bceidbusiness", "bceid-business":
		return domain.IdentitySourceBCeIDBusiness
	case "database", "":
		return domain.IdentitySourceDatabase
	case "system":
		return domain.IdentitySourceSystem
	default:
		return domain.IdentitySource(strings.ToUpper(provider))
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"code":    401,
		"message": "unauthorized: " + message,
	})
}
