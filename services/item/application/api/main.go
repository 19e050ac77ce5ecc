package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/pantry/pkg/app"
	"github.com/ghuser/pantry/pkg/auth"
	"github.com/ghuser/pantry/services/item/application/handlers"
	appsvcs "github.com/ghuser/pantry/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, a *app.Application) {
	Mount(r, a, appsvcs.New(a))
}

// Mount registers item endpoints backed by svcs. Write routes require a
// session when a.AuthRequired(); otherwise a session is optional.
func Mount(r chi.Router, a *app.Application, svcs *appsvcs.Services) {
	prod := a.IsProduction()
	idPath := "/{" + handlers.ItemIDParam + "}"

	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewListItemsHandler(svcs, prod).Execute)
		r.Get(idPath, handlers.NewGetItemHandler(svcs, prod).Execute)

		r.Group(func(r chi.Router) {
			switch {
			case a.AuthRequired():
				r.Use(auth.RequireAuth(a.SessionStore, a.Logger))
			case a.SessionStore != nil:
				r.Use(auth.OptionalAuth(a.SessionStore))
			}
			r.Post("/", handlers.NewPostItemHandler(svcs, prod).Execute)
			r.Post(idPath+"/archive", handlers.NewArchiveItemHandler(svcs, prod).Execute)
			r.Post(idPath+"/unarchive", handlers.NewUnarchiveItemHandler(svcs, prod).Execute)
		})
	})
}
