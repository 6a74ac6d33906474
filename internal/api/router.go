package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	s "github.com/goshop/cart-checkout/internal/service"
)

func NewRouter(engine *s.CartEngine, coordinator *s.CheckoutCoordinator, requestTimeout time.Duration) http.Handler {
	cartHandler := NewCartHandler(engine)
	orderHandler := NewOrderHandler(coordinator)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(IdentityMiddleware)

		r.Route("/cart", func(r chi.Router) {
			r.Use(RequireShopper)
			r.Get("/", cartHandler.GetCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{product_id}", cartHandler.SetQuantity)
			r.Delete("/items/{product_id}", cartHandler.RemoveItem)
			r.Post("/clear", cartHandler.Clear)
		})

		r.Route("/orders", func(r chi.Router) {
			r.With(RequireShopper).Post("/checkout", orderHandler.Checkout)
			r.Get("/my-orders", orderHandler.MyOrders)
		})
	})

	return r
}
