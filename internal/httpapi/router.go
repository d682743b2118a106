package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type RouterDeps struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Auth     *AuthHandler
	Sessions TokenResolver
	Timeout  time.Duration
}

// NewRouter assembles the public surface. Catalog and auth entry points
// are open; cart, checkout, orders and profile sit behind the bearer
// token middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.Timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	authenticated := AuthMiddleware(deps.Sessions)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Products.List)
			r.Get("/search", deps.Products.Search)
			r.Get("/promos", deps.Products.Promos)
			r.Get("/handle/{handle}", deps.Products.GetByHandle)
			r.Get("/{id}", deps.Products.Get)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", deps.Products.Categories)
			r.Get("/{id}/products", deps.Products.ByCategory)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", deps.Auth.Register)
			r.Post("/login", deps.Auth.Login)
			r.Post("/logout", deps.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/profile", deps.Auth.Profile)
				r.Put("/profile", deps.Auth.UpdateProfile)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Delete("/", deps.Cart.ClearCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/start", deps.Checkout.Start)
				r.Get("/state", deps.Checkout.State)
				r.Post("/shipping", deps.Checkout.SubmitShipping)
				r.Post("/payment-method", deps.Checkout.SelectMethod)
				r.Post("/retry-intent", deps.Checkout.RetryIntent)
				r.Post("/confirm", deps.Checkout.ConfirmCard)
				r.Post("/confirm-cod", deps.Checkout.ConfirmCOD)
			})

			r.Get("/orders", deps.Orders.List)
		})
	})

	return otelhttp.NewHandler(r, "minimarket-api")
}
