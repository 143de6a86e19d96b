package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/parisxmas/OxiDB/OxiPortal/internal/auth"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/handler"
	"github.com/parisxmas/OxiDB/OxiPortal/internal/metrics"
	mw "github.com/parisxmas/OxiDB/OxiPortal/internal/middleware"
)

// New wires the HTTP API. metricsH is mounted at /metrics when non-nil.
func New(
	log *zap.Logger,
	jwtSecret string,
	catalogH *handler.CatalogHandler,
	formH *handler.FormHandler,
	chatH *handler.ChatHandler,
	metricsH http.Handler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Recovery(log))
	r.Use(mw.Logger(log))
	r.Use(mw.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if metricsH != nil {
		r.Method(http.MethodGet, "/metrics", metricsH)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/categories", catalogH.List)
		r.Post("/forms", formH.Create)
		r.Post("/chats", chatH.Create)

		// Session routes, each token scoped to its own session
		r.Route("/forms/{formId}", func(r chi.Router) {
			r.Use(auth.RequireSession(jwtSecret, metrics.KindForm, "formId"))
			r.Get("/", formH.Get)
			r.Delete("/", formH.Delete)
			r.Put("/category", formH.SelectCategory)
			r.Put("/documents/{label}", formH.AttachDocument)
			r.Delete("/documents/{label}", formH.DetachDocument)
			r.Post("/submit", formH.Submit)
		})

		r.Route("/chats/{chatId}", func(r chi.Router) {
			r.Use(auth.RequireSession(jwtSecret, metrics.KindChat, "chatId"))
			r.Get("/", chatH.Get)
			r.Delete("/", chatH.Delete)
			r.Post("/messages", chatH.Send)
		})
	})

	return r
}
