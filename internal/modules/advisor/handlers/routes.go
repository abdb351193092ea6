package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all advisor routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/advisor", func(r chi.Router) {
		r.Post("/advise", h.HandleAdvise)          // One profile -> advice record
		r.Post("/compare", h.HandleCompare)        // Several profiles -> side-by-side records
		r.Get("/history", h.HandleHistory)         // All records, insertion order
		r.Delete("/history", h.HandleClearHistory) // Reset session history
		r.Get("/health", h.HandleHealth)           // Liveness
	})
}
