package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopcore/shopcore-backend/api/controllers"
	"github.com/shopcore/shopcore-backend/api/middleware"
	authsvc "github.com/shopcore/shopcore-backend/internal/auth"
	cartsvc "github.com/shopcore/shopcore-backend/internal/cart"
	"github.com/shopcore/shopcore-backend/internal/catalog"
	"github.com/shopcore/shopcore-backend/pkg/auth/session"
	"github.com/shopcore/shopcore-backend/pkg/config"
	"github.com/shopcore/shopcore-backend/pkg/db"
	"github.com/shopcore/shopcore-backend/pkg/enums"
	"github.com/shopcore/shopcore-backend/pkg/logger"
	"github.com/shopcore/shopcore-backend/pkg/metrics"
	"github.com/shopcore/shopcore-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager sessionManager
	Registry       *prometheus.Registry
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService     authsvc.Service
	RegisterService authsvc.RegisterService
	CatalogService  catalog.Service
	CartService     cartsvc.Service
}

// NewRouter assembles the full route tree with its middleware stack.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	readyDeps := map[string]db.Pinger{"database": p.DB}
	if p.Redis != nil {
		readyDeps["redis"] = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
			Post("/login/", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
			Post("/register/", controllers.AuthRegister(p.RegisterService, logg))
		r.Post("/logout/", controllers.AuthLogout(p.AuthService, cfg.JWT, logg))
		r.Post("/refresh/", controllers.AuthRefresh(p.AuthService, logg))
	})

	// Catalog browsing is open; every mutation is admin-gated.
	r.Get("/products/", controllers.ProductList(p.CatalogService, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

		r.Post("/products/create/", controllers.ProductCreate(p.CatalogService, logg))
		r.Get("/product/{id}/", controllers.ProductDetail(p.CatalogService, logg))
		r.Put("/product/{id}/", controllers.ProductUpdate(p.CatalogService, logg, false))
		r.Patch("/product/{id}/", controllers.ProductUpdate(p.CatalogService, logg, true))
		r.Delete("/product/{id}/", controllers.ProductDelete(p.CatalogService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Get("/cart/", controllers.CartList(p.CartService, logg))
		r.Post("/cart/", controllers.CartAdd(p.CartService, logg))
		r.Put("/cart/{id}/", controllers.CartUpdateQuantity(p.CartService, logg))
		r.Delete("/cart/{id}/", controllers.CartDelete(p.CartService, logg))
		r.Delete("/cart/clear/", controllers.CartClear(p.CartService, logg))
		r.Get("/cart/total/", controllers.CartTotal(p.CartService, logg))
	})

	return r
}
