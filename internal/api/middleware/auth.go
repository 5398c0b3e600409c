package middleware

import (
	"context"
	"net/http"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/auth"
)

const claimsKey contextKey = "auth_claims"

// Authenticate validates the bearer token and stores its claims in the
// request context. Requests without a valid token get 401 problem+json.
func Authenticate(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				unauthorized(w, r, "missing bearer token")
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				unauthorized(w, r, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles rejects authenticated requests whose role is not in the
// allowed set. Must run after Authenticate.
func RequireRoles(allowed ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				unauthorized(w, r, "missing bearer token")
				return
			}
			if !auth.HasRole(claims.Role, allowed...) {
				problem.WriteProblem(w, problem.ProblemDetails{
					Type:     problem.TypeForbidden,
					Title:    "Forbidden",
					Status:   http.StatusForbidden,
					Detail:   "insufficient role for this operation",
					Instance: r.URL.Path,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the token claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// WithClaims stores claims in ctx. Exposed for handler tests.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func unauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	problem.WriteProblem(w, problem.ProblemDetails{
		Type:     problem.TypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: r.URL.Path,
	})
}
