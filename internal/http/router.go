package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JelipeElGuapo/safebuzz/internal/auth"
	"github.com/JelipeElGuapo/safebuzz/internal/cart"
	"github.com/JelipeElGuapo/safebuzz/internal/catalog"
	"github.com/JelipeElGuapo/safebuzz/internal/middleware"
)

type Deps struct {
	Catalog  *catalog.Store
	Cart     *cart.Store
	Auth     *auth.Store
	Checkout CheckoutService

	CORSAllowOrigins []string
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(deps.CORSAllowOrigins))

	r.Get("/health", healthHandler)

	catalogHandler := NewCatalogHandler(deps.Catalog)
	cartHandler := NewCartHandler(deps.Cart, deps.Catalog)
	authHandler := NewAuthHandler(deps.Auth)
	checkoutHandler := NewCheckoutHandler(deps.Checkout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogHandler.List)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{productId}", cartHandler.UpdateItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
			r.Delete("/error", authHandler.ClearError)
			r.Get("/email-exists", authHandler.EmailExists)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}
