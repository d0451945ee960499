package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes builds the router with all endpoints and middleware. The
// image route is a wildcard because camera keys contain slashes.
func (server *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestLogger)
	r.Use(recoverer)

	r.Get("/", server.handleIndex)
	r.Get("/image/*", server.handleImage)
	r.Get("/status", server.handleStatus)
	r.Get("/healthz", server.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
