package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hyunwoo-dev/storefront-backend/api/controllers"
	"github.com/hyunwoo-dev/storefront-backend/api/middleware"
	"github.com/hyunwoo-dev/storefront-backend/internal/auth"
	cartsvc "github.com/hyunwoo-dev/storefront-backend/internal/cart"
	checkoutsvc "github.com/hyunwoo-dev/storefront-backend/internal/checkout"
	productsvc "github.com/hyunwoo-dev/storefront-backend/internal/products"
	"github.com/hyunwoo-dev/storefront-backend/pkg/auth/session"
	"github.com/hyunwoo-dev/storefront-backend/pkg/config"
	"github.com/hyunwoo-dev/storefront-backend/pkg/logger"
	"github.com/hyunwoo-dev/storefront-backend/pkg/metrics"
)

// Pinger mirrors the health check surface of the backing clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	DB      Pinger
	Redis   Pinger
	Storage Pinger

	Sessions        session.AccessSessionChecker
	AuthService     auth.Service
	RegisterService auth.RegisterService
	ProductService  productsvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.Storage))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, cfg.JWT, logg))
	})

	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList())
	})

	r.Get("/api/v1/products", controllers.ProductList(deps.ProductService, logg))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Post("/v1/products", controllers.ProductCreate(deps.ProductService, logg))

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, cfg.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(deps.CartService, logg))
			r.Patch("/items/{productId}", controllers.CartChangeCount(deps.CartService, cfg.Cart, logg))
		})

		r.Post("/v1/purchase", controllers.Checkout(deps.CheckoutService, deps.CartService, logg))
		r.Get("/v1/orders", controllers.OrderList(deps.CheckoutService, logg))
	})

	return r
}
