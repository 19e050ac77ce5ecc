package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/pantry/pkg/app"
	"github.com/ghuser/pantry/pkg/auth"
	"github.com/ghuser/pantry/services/product/application/handlers"
	appsvcs "github.com/ghuser/pantry/services/product/application/services"
)

// ProductRoutes registers product and measure endpoints on the provided chi router.
func ProductRoutes(r chi.Router, a *app.Application) {
	Mount(r, a, appsvcs.New(a))
}

// Mount registers the /products and /measures routes backed by svcs.
func Mount(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	prod := a.IsProduction()
	guard := writeGuard(a)

	products := handlers.NewProductHandlers(svcs, prod)
	r.Route("/products", func(r chi.Router) {
		idPath := "/{" + handlers.ProductIDParam + "}"
		r.Get("/", products.List)
		r.Get(idPath, products.Get)
		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/", products.Create)
			r.Post(idPath+"/archive", products.Archive)
			r.Post(idPath+"/unarchive", products.Unarchive)
		})
	})

	measures := handlers.NewMeasureHandlers(svcs, prod)
	r.Route("/measures", func(r chi.Router) {
		idPath := "/{" + handlers.MeasureIDParam + "}"
		r.Get("/", measures.List)
		r.Get(idPath, measures.Get)
		r.Group(func(r chi.Router) {
			r.Use(guard)
			r.Post("/", measures.Create)
			r.Post(idPath+"/archive", measures.Archive)
			r.Post(idPath+"/unarchive", measures.Unarchive)
		})
	})
}

// writeGuard requires a session when a.AuthRequired() and otherwise
// attaches one when present.
func writeGuard(a *app.Application) func(http.Handler) http.Handler {
	switch {
	case a.AuthRequired():
		return auth.RequireAuth(a.SessionStore, a.Logger)
	case a.SessionStore != nil:
		return auth.OptionalAuth(a.SessionStore)
	default:
		return func(next http.Handler) http.Handler { return next }
	}
}
