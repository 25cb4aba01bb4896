// Package server wires the REST API: routing, CORS, authentication, and
// the JSON handlers for every operation.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/motorpool/backend/internal/auth"
	"github.com/motorpool/backend/internal/catalog"
	"github.com/motorpool/backend/internal/metrics"
	"github.com/motorpool/backend/internal/middleware"
	"github.com/motorpool/backend/internal/service"
)

// Server holds the services behind the REST API.
type Server struct {
	accounts    *service.AccountService
	groups      *service.GroupService
	payments    *service.PaymentService
	preferences *service.PreferenceService
	offers      *service.OfferService
	analytics   *service.AnalyticsService
	catalog     *catalog.Catalog
	jwtManager  *auth.JWTManager
}

// New creates a Server.
func New(
	accounts *service.AccountService,
	groups *service.GroupService,
	payments *service.PaymentService,
	preferences *service.PreferenceService,
	offers *service.OfferService,
	analytics *service.AnalyticsService,
	cat *catalog.Catalog,
	jwtManager *auth.JWTManager,
) *Server {
	return &Server{
		accounts:    accounts,
		groups:      groups,
		payments:    payments,
		preferences: preferences,
		offers:      offers,
		analytics:   analytics,
		catalog:     cat,
		jwtManager:  jwtManager,
	}
}

// Routes builds the chi router with the full middleware stack and the /api
// operation surface.
func (s *Server) Routes(corsAllowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(middleware.Metrics)
	r.Use(middleware.Logging)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	requireAuth := middleware.RequireAuth(s.jwtManager, func(w http.ResponseWriter, err error) {
		writeError(w, err)
	})
	requireAdmin := middleware.RequireAdmin(func(w http.ResponseWriter) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required"})
	})

	r.Route("/api", func(r chi.Router) {
		// Public surface.
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Get("/groups", s.handleListGroups)
		r.Get("/groups/{groupID}", s.handleGetGroup)
		r.Get("/groups/{groupID}/members", s.handleListMembers)
		r.Get("/groups/{groupID}/offers", s.handleListOffers)
		r.Get("/groups/{groupID}/preferences", s.handleListPreferences)
		r.Get("/car-data/{brand}", s.handleCarData)

		// Authenticated surface.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth/me", s.handleMe)
			r.Post("/users/pay-for-group/{groupID}", s.handlePay)
			r.Get("/users/check-payment/{groupID}", s.handleCheckPayment)
			r.Post("/groups", s.handleCreateGroup)
			r.Post("/groups/{groupID}/join", s.handleJoinGroup)
			r.Post("/groups/{groupID}/preferences", s.handleSavePreference)
			r.Get("/groups/{groupID}/my-preference", s.handleMyPreference)
			r.Post("/offers/{offerID}/vote", s.handleVote)

			// Admin surface.
			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)

				r.Get("/admin/locked-groups", s.handleLockedGroups)
				r.Post("/admin/groups/{groupID}/offers", s.handleCreateOffer)
				r.Post("/admin/groups/{groupID}/complete", s.handleCompleteGroup)
				r.Get("/admin/groups/{groupID}/analytics", s.handleAnalytics)
				r.Post("/seed-data", s.handleSeedData)
			})
		})
	})

	return r
}
