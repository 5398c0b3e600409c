package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/campus-events/server/internal/api/handlers"
	"github.com/campus-events/server/internal/api/middleware"
	"github.com/campus-events/server/internal/audit"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/certificates"
	"github.com/campus-events/server/internal/config"
	"github.com/campus-events/server/internal/domain/analytics"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/feedback"
	"github.com/campus-events/server/internal/domain/users"
	"github.com/campus-events/server/internal/metrics"
	"github.com/campus-events/server/internal/storage/postgres"
)

// NewRouter wires services, handlers, and the middleware chain. The pool is
// injected so commands and tests control the database lifecycle.
func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool) (http.Handler, error) {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)
	auditLogger := audit.NewLogger()

	eventsService := events.NewService(repo.Events(), auditLogger)
	usersService := users.NewService(repo.Users(), tokens)
	feedbackService := feedback.NewService(repo.Feedback())
	analyticsService := analytics.NewService(repo)
	generator := certificates.NewGenerator(cfg.Certificates.OutputDir)

	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment, cfg.Server.BaseURL)
	authHandler := handlers.NewAuthHandler(usersService, cfg.Environment)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, cfg.Environment)
	certificatesHandler := handlers.NewCertificatesHandler(eventsService, generator, auditLogger, cfg.Environment)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, cfg.Environment)

	authenticate := middleware.Authenticate(tokens)
	// Only clubs author events. Management routes below admit admins too,
	// whose ownership override lives in the handlers.
	creatorOnly := middleware.RequireRoles(auth.RoleClub)
	clubOnly := middleware.RequireRoles(auth.RoleClub, auth.RoleAdmin)
	adminOnly := middleware.RequireRoles(auth.RoleAdmin)
	studentOnly := middleware.RequireRoles(auth.RoleStudent)

	mux := http.NewServeMux()
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/api/v1/auth/register", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Register),
	}))
	mux.Handle("/api/v1/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))

	mux.Handle("/api/v1/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.List),
		http.MethodPost: authenticate(creatorOnly(http.HandlerFunc(eventsHandler.Create))),
	}))
	mux.Handle("/api/v1/events/search", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.Search),
	}))
	mux.Handle("/api/v1/events/recommended", methodMux(map[string]http.Handler{
		http.MethodGet: authenticate(studentOnly(http.HandlerFunc(eventsHandler.Recommend))),
	}))
	mux.Handle("/api/v1/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: optionalAuth(tokens, http.HandlerFunc(eventsHandler.Get)),
	}))
	mux.Handle("/api/v1/events/{id}/status", methodMux(map[string]http.Handler{
		http.MethodPatch: authenticate(adminOnly(http.HandlerFunc(eventsHandler.SetStatus))),
	}))
	mux.Handle("/api/v1/events/{id}/register", methodMux(map[string]http.Handler{
		http.MethodPost: authenticate(studentOnly(http.HandlerFunc(eventsHandler.Register))),
	}))
	mux.Handle("/api/v1/events/{id}/qr-attendance", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(eventsHandler.QRAttendance),
	}))
	mux.Handle("/api/v1/events/{id}/attendance", methodMux(map[string]http.Handler{
		http.MethodPost: authenticate(clubOnly(http.HandlerFunc(eventsHandler.MarkAttendance))),
	}))
	mux.Handle("/api/v1/events/{id}/attendees", methodMux(map[string]http.Handler{
		http.MethodGet: authenticate(clubOnly(http.HandlerFunc(eventsHandler.Roster))),
	}))
	mux.Handle("/api/v1/events/{id}/qrcode", methodMux(map[string]http.Handler{
		http.MethodGet: authenticate(clubOnly(http.HandlerFunc(eventsHandler.QRCode))),
	}))

	mux.Handle("/api/v1/feedback/{id}", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(feedbackHandler.List),
		http.MethodPost: authenticate(http.HandlerFunc(feedbackHandler.Submit)),
	}))

	mux.Handle("/api/v1/certificates/{id}", methodMux(map[string]http.Handler{
		http.MethodPost: authenticate(clubOnly(http.HandlerFunc(certificatesHandler.Generate))),
	}))

	mux.Handle("/api/v1/analytics/summary", methodMux(map[string]http.Handler{
		http.MethodGet: authenticate(adminOnly(http.HandlerFunc(analyticsHandler.Summary))),
	}))

	var handler http.Handler = mux
	handler = middleware.RateLimit(cfg.RateLimit, rateLimitTier)(handler)
	handler = middleware.PublicRequestSize()(handler)
	handler = middleware.CORS(cfg.CORS, logger)(handler)
	handler = metrics.Instrument(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)

	return handler, nil
}

// rateLimitTier routes the unauthenticated abuse surfaces onto their stricter
// buckets. Everything else shares the public tier.
func rateLimitTier(r *http.Request) middleware.RateLimitTier {
	switch {
	case r.URL.Path == "/api/v1/auth/login":
		return middleware.TierLogin
	case strings.HasSuffix(r.URL.Path, "/qr-attendance"):
		return middleware.TierCheckIn
	}
	return middleware.TierPublic
}

// optionalAuth attaches claims when a valid token is present but never
// rejects; the single-event read serves both views from one route.
func optionalAuth(tokens *auth.JWTManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, err := auth.TokenFromHeader(r.Header.Get("Authorization")); err == nil {
			if claims, err := tokens.Validate(token); err == nil {
				r = r.WithContext(middleware.WithClaims(r.Context(), claims))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
