// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains of the
// Starbiz admin API.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"starbiz/internal/handlers"
	"starbiz/internal/middleware"
)

// Handlers bundles the handler groups the router mounts.
type Handlers struct {
	Auth      *handlers.Auth
	Dashboard *handlers.Dashboard
	Content   *handlers.Content
}

// Login attempts allowed per client IP and email within loginWindow.
const (
	loginLimit  = 10
	loginWindow = time.Minute
)

// New creates the chi router with all middleware and route groups wired up.
// The returned stop function releases the rate limiter.
func New(sessions middleware.SessionLoader, h Handlers) (chi.Router, func()) {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessions))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	limiter := middleware.NewRateLimiter(loginLimit, loginWindow, middleware.LoginKey)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(limiter.Middleware).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Get("/me", h.Auth.Me)
				r.Get("/totp.png", h.Auth.TOTPQR)
			})
		})

		// Everything below needs a session.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/dashboard", h.Dashboard.Show)

			r.Route("/{vertical}", func(r chi.Router) {
				r.Use(h.Content.Vertical)

				r.Route("/items", func(r chi.Router) {
					r.Get("/", h.Content.ListItems)
					r.Post("/", h.Content.CreateItem)
					r.Get("/{id}", h.Content.GetItem)
					r.Put("/{id}", h.Content.UpdateItem)
					r.Delete("/{id}", h.Content.DeleteItem)
					r.Get("/{id}/units", h.Content.ListUnits)
					r.Post("/{id}/units", h.Content.CreateUnit)
				})

				r.Route("/units/{id}", func(r chi.Router) {
					r.Get("/", h.Content.GetUnit)
					r.Put("/", h.Content.UpdateUnit)
					r.Delete("/", h.Content.DeleteUnit)
					r.Post("/move", h.Content.MoveUnit)
					r.Get("/materials", h.Content.ListMaterials)
					r.Post("/materials", h.Content.CreateMaterial)
				})

				r.Route("/materials/{id}", func(r chi.Router) {
					r.Put("/", h.Content.UpdateMaterial)
					r.Delete("/", h.Content.DeleteMaterial)
				})
			})
		})
	})

	return r, limiter.Stop
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
