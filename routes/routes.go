package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"stakevault/controllers"
	"stakevault/controllers/users"
	"stakevault/middleware"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "stakevault-api",
	})
}

func InitRouter() *mux.Router {
	r := mux.NewRouter()

	// Root-level health check for container orchestration
	r.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	// CORS: origins from CORS_ALLOWED_ORIGINS (comma-separated) plus local dev
	origins := []string{
		"http://localhost:3000", "http://localhost:8080",
		"http://127.0.0.1:3000", "http://127.0.0.1:8080",
	}
	if env := os.Getenv("CORS_ALLOWED_ORIGINS"); env != "" {
		for _, p := range strings.Split(env, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-CRON-KEY", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/v3").Subrouter()
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// Scheduled triggers, guarded by X-CRON-KEY inside the handlers
	cronLimiter := middleware.NewIPRateLimiter(1000, time.Hour)
	api.Handle("/cron/daily-roi", cronLimiter.Middleware(http.HandlerFunc(users.CronDailyRoiHandler))).Methods(http.MethodPost)
	api.Handle("/cron/team-earnings", cronLimiter.Middleware(http.HandlerFunc(users.CronTeamEarningsHandler))).Methods(http.MethodPost)
	api.Handle("/cron/voucher-expiry", cronLimiter.Middleware(http.HandlerFunc(users.CronVoucherExpiryHandler))).Methods(http.MethodPost)

	// Public catalog
	api.Handle("/packages", http.HandlerFunc(controllers.PackageListHandler)).Methods(http.MethodGet)

	api.Handle("/health", http.HandlerFunc(healthHandler)).Methods(http.MethodGet)

	UsersRoutes(api)

	return r
}
