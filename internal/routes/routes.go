package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/arjunkashyap/contactbook-backend/internal/handlers"
	"github.com/arjunkashyap/contactbook-backend/internal/middleware"
	"github.com/arjunkashyap/contactbook-backend/internal/services"
)

func SetupRoutes(r *chi.Mux, tokens *services.TokenService, auth *handlers.AuthHandler, contacts *handlers.ContactHandler) {
	// Public auth routes
	r.Post("/api/users/register", auth.Register)
	r.Post("/api/users/login", auth.Login)

	// Everything below requires a valid bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))

		r.Get("/api/users/current", auth.Current)

		r.Get("/api/contacts", contacts.List)
		r.Post("/api/contacts", contacts.Create)
		r.Get("/api/contacts/{id}", contacts.Get)
		r.Put("/api/contacts/{id}", contacts.Update)
		r.Delete("/api/contacts/{id}", contacts.Delete)
	})
}
