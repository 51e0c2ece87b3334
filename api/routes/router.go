package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentwheels/rentwheels-backend/api/controllers"
	"github.com/rentwheels/rentwheels-backend/api/middleware"
	"github.com/rentwheels/rentwheels-backend/internal/auth"
	"github.com/rentwheels/rentwheels-backend/internal/bookings"
	"github.com/rentwheels/rentwheels-backend/internal/users"
	"github.com/rentwheels/rentwheels-backend/internal/vehicles"
	"github.com/rentwheels/rentwheels-backend/pkg/auth/session"
	"github.com/rentwheels/rentwheels-backend/pkg/config"
	"github.com/rentwheels/rentwheels-backend/pkg/db"
	"github.com/rentwheels/rentwheels-backend/pkg/enums"
	"github.com/rentwheels/rentwheels-backend/pkg/logger"
	"github.com/rentwheels/rentwheels-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	sessionManager sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	userService users.Service,
	vehicleService vehicles.Service,
	bookingService bookings.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"signin",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisClient, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signupPolicy, redisClient, logg)).Post("/signup", controllers.AuthSignup(registerService, authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/signin", controllers.AuthLogin(authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessionManager, cfg.JWT, logg))
	})

	// Browsing the fleet needs no account.
	r.Route("/api/v1/vehicles", func(r chi.Router) {
		r.Get("/", controllers.VehicleList(vehicleService, logg))
		r.Get("/{vehicleId}", controllers.VehicleGet(vehicleService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Use(middleware.Idempotency(redisClient, logg))
			r.Post("/", controllers.VehicleCreate(vehicleService, logg))
			r.Put("/{vehicleId}", controllers.VehicleUpdate(vehicleService, logg))
			r.Delete("/{vehicleId}", controllers.VehicleDelete(vehicleService, logg))
		})
	})

	r.Route("/api/v1/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.Idempotency(redisClient, logg))
		r.Post("/", controllers.BookingCreate(bookingService, logg))
		r.Get("/", controllers.BookingList(bookingService, logg))
		r.Put("/{bookingId}/status", controllers.BookingUpdateStatus(bookingService, logg))
	})

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Get("/", controllers.UserList(userService, logg))
			r.Delete("/{userId}", controllers.UserDelete(userService, logg))
		})

		// Ownership checks for non-admin callers live in the service layer.
		r.Get("/{userId}", controllers.UserGet(userService, logg))
		r.Put("/{userId}", controllers.UserUpdate(userService, logg))
	})

	return r
}
