package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/middleware"
	"github.com/mmynk/billtracker/internal/storage"
)

// NewRouter assembles the full HTTP surface: auth routes, bill routes
// behind the bearer-token guard, health check and metrics.
func NewRouter(authSvc *AuthService, billSvc *BillService, jwtManager *auth.JWTManager, store storage.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimid.Recoverer)
	r.Use(middleware.Prometheus)
	r.Use(middleware.CORS)

	r.Get("/api/health", healthHandler(store))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authSvc.Register)
		r.Post("/login", authSvc.Login)
	})

	r.Route("/api/bills", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))
		r.Get("/", billSvc.List)
		r.Post("/", billSvc.Create)
		r.Get("/{id}", billSvc.Get)
		r.Patch("/{id}", billSvc.Update)
		r.Delete("/{id}", billSvc.Delete)
	})

	return r
}

// healthHandler pings the store and reports {ok:true} when reachable.
func healthHandler(store storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
