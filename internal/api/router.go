package api

import (
	"drivesafe-service/internal/api/handlers"
	"drivesafe-service/internal/ports"
	"drivesafe-service/internal/services"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies for NewRouter. Sender and Help.Notifier may be nil, in which
// case the matching endpoints answer 503. Center and help routes are only
// mounted when Directory is set.
type RouterDeps struct {
	Directory     *services.CenterDirectory
	Sender        ports.SMSSender
	Help          services.HelpDeps
	CORSOrigins   []string
	SMSRatePerMin int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	origins := deps.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.Health)

	if deps.Sender != nil {
		smsHandler := &handlers.SMSHandler{Sender: deps.Sender}
		r.With(rateLimitMiddleware(deps.SMSRatePerMin)).Post("/send-sms", smsHandler.Send)
	} else {
		r.Post("/send-sms", unavailable("sms relay is not configured"))
	}

	help := deps.Help
	if help.Directory == nil {
		help.Directory = deps.Directory
	}

	if deps.Directory != nil {
		centerHandler := &handlers.CenterHandler{Directory: deps.Directory}
		helpHandler := &handlers.HelpHandler{Deps: help}

		r.Get("/centers", centerHandler.List)
		r.Get("/centers/nearest", centerHandler.Nearest)
		r.Post("/help", helpHandler.Request)
	}

	return r
}

func unavailable(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"error":"` + msg + `"}` + "\n"))
	}
}
