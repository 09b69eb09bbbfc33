// Пакет api — read-only HTTP API рядом с ботом: состояние площадок и
// отчетов отдается в JSON для внешних панелей.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"Aquagrim/internal/kv"
)

// ApiDependencies содержит зависимости для обработчиков API.
type ApiDependencies struct {
	Store *kv.Store
}

// NewRouter настраивает маршруты и middleware.
func NewRouter(deps ApiDependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	h := &apiHandlers{store: deps.Store}

	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/sites", h.GetSites)
		r.Get("/sites/{siteID}/reports", h.GetSiteReports)
	})
	return r
}
