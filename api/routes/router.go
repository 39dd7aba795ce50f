package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HYPERLOOPFIVER/lakes/api/controllers"
	"github.com/HYPERLOOPFIVER/lakes/api/middleware"
	"github.com/HYPERLOOPFIVER/lakes/internal/cart"
	"github.com/HYPERLOOPFIVER/lakes/internal/catalog"
	checkoutsvc "github.com/HYPERLOOPFIVER/lakes/internal/checkout"
	"github.com/HYPERLOOPFIVER/lakes/internal/orders"
	"github.com/HYPERLOOPFIVER/lakes/internal/users"
	"github.com/HYPERLOOPFIVER/lakes/internal/wishlist"
	"github.com/HYPERLOOPFIVER/lakes/pkg/config"
	"github.com/HYPERLOOPFIVER/lakes/pkg/db"
	"github.com/HYPERLOOPFIVER/lakes/pkg/logger"
	"github.com/HYPERLOOPFIVER/lakes/pkg/pubsub"
	pkgredis "github.com/HYPERLOOPFIVER/lakes/pkg/redis"
)

// Deps carries everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *pkgredis.Client
	PubSub   pubsub.Pinger
	Verifier middleware.TokenVerifier

	Catalog  catalog.Service
	Cart     cart.Service
	Wishlist wishlist.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service
	Users    users.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis, deps.PubSub))
	})

	r.Handle("/metrics", promhttp.Handler())

	if !cfg.App.IsProd() {
		r.Post("/api/public/dev-token", controllers.DevToken(cfg.JWT, logg))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Verifier, logg))
		r.Use(middleware.RateLimit(cfg.RateLimit, deps.Redis, logg))
		r.Use(middleware.Idempotency(deps.Redis, cfg.Checkout.IdempotencyTTL, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, logg))
			r.Get("/trending", controllers.TrendingProducts(deps.Catalog, logg))
			r.Get("/search", controllers.SearchProducts(deps.Catalog, logg))
			r.Get("/categories", controllers.ListCategories(deps.Catalog, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, logg))
			r.Delete("/", controllers.ClearCart(deps.Cart, logg))
			r.Post("/items", controllers.AddCartItem(deps.Cart, logg))
			r.Patch("/items/{productId}", controllers.ChangeCartQuantity(deps.Cart, logg))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.ListWishlist(deps.Wishlist, logg))
			r.Post("/", controllers.AddWishlistItem(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.RemoveWishlistItem(deps.Wishlist, logg))
		})

		// Registered flat so the route pattern matches the idempotency rules.
		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		r.Get("/checkout/slots", controllers.DeliverySlots(deps.Checkout, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/active", controllers.ActiveOrders(deps.Orders, logg))
			r.Get("/watch", controllers.WatchOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.CancelOrder(deps.Orders, logg))
			r.Post("/{orderId}/cash-confirmation", controllers.ConfirmCashPayment(deps.Orders, logg))
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.GetProfile(deps.Users, logg))
			r.Patch("/", controllers.UpdateProfile(deps.Users, logg))
			r.Put("/address", controllers.SaveAddress(deps.Users, logg))
			r.Post("/locate", controllers.Locate(deps.Users, logg))
			r.Get("/search-history", controllers.SearchHistory(deps.Users, logg))
			r.Post("/search-history", controllers.RecordSearch(deps.Users, logg))
		})
	})

	return r
}
