package v1

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kurochkinivan/bulk_uploader/internal/config"
)

type Server struct {
	httpServer *http.Server
}

type Handlers struct {
	Uploads       *UploadsHandler
	Jobs          *JobsHandler
	Subscriptions *SubscriptionsHandler
}

func NewServer(cfg config.HTTP, h Handlers) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      NewRouter(h),
		},
	}
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/uploads", h.Uploads.Upload)

		r.Route("/jobs/{id}", func(r chi.Router) {
			r.Get("/records", h.Jobs.GetRecords)
			r.Post("/stop", h.Jobs.StopJob)
		})

		r.Get("/owners/{owner}/history", h.Jobs.GetHistory)
		r.Get("/ws", h.Subscriptions.Subscribe)
	})

	return r
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
