// Package web serves the redemption side of verification: the landing page a
// member opens from their Discord link and the form post that completes it.
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ray1047820-bit/discord-auth-bot/verify"
)

type Server struct {
	logger *slog.Logger
	svc    *verify.Service
}

func NewServer(logger *slog.Logger, svc *verify.Service) *Server {
	return &Server{logger: logger, svc: svc}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handleHome)
	r.Get("/verify", s.handleVerify)
	r.Post("/complete", s.handleComplete)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
