package gateway

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/snapshot"
	"github.com/luckyonesl/frigate-mqtt-pricure-viewer/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

// ServerTLSConfig holds TLS configuration for the HTTP server
type ServerTLSConfig struct {
	Enabled  bool
	CertFile string
	KeyFile  string
}

// Validate checks if the TLS configuration is valid
func (c ServerTLSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.CertFile == "" {
		return errors.New("TLS enabled but certificate file not specified")
	}
	if c.KeyFile == "" {
		return errors.New("TLS enabled but key file not specified")
	}
	// Note: We don't check file existence here because the files may not exist
	// at configuration time (e.g., mounted later in container). The server will
	// fail with a clear error when attempting to start if files are missing.
	return nil
}

// Opts holds the bind address and page behaviour of the gateway.
type Opts struct {
	Host            string
	Port            int
	TLS             ServerTLSConfig
	RefreshInterval time.Duration
}

// BrokerStatus is a point-in-time summary of the broker side of the
// bridge, surfaced on the status endpoint.
type BrokerStatus struct {
	URL     string
	Pattern string
	State   string
}

// BrokerStatusFunc reports the current broker status. The gateway only
// sees this function, never the MQTT client itself.
type BrokerStatusFunc func() BrokerStatus

// Server serves cached snapshots over HTTP.
type Server struct {
	opts    Opts
	store   *snapshot.Store
	status  BrokerStatusFunc
	handler http.Handler
}

// NewServer validates the TLS configuration and wires the routes.
func NewServer(opts Opts, store *snapshot.Store, status BrokerStatusFunc) (*Server, error) {
	if err := opts.TLS.Validate(); err != nil {
		return nil, err
	}

	server := &Server{
		opts:   opts,
		store:  store,
		status: status,
	}
	server.handler = server.routes()

	return server, nil
}

// Handler returns the assembled router.
func (server *Server) Handler() http.Handler {
	return server.handler
}

// Run serves until the context is cancelled, then drains in-flight
// requests before returning.
func (server *Server) Run(ctx utils.GracefulContext) {
	addr := fmt.Sprintf("%v:%v", server.opts.Host, server.opts.Port)
	httpServer := createHTTPServer(addr, server.handler, server.opts.TLS)

	serveErr := make(chan error, 1)
	go func() {
		if server.opts.TLS.Enabled {
			log.Info().Str("addr", addr).Bool("tls", true).Msg("Starting HTTPS server")
			serveErr <- httpServer.ListenAndServeTLS(server.opts.TLS.CertFile, server.opts.TLS.KeyFile)
		} else {
			log.Info().Str("addr", addr).Bool("tls", false).Msg("Starting HTTP server")
			serveErr <- httpServer.ListenAndServe()
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("HTTP server did not drain cleanly")
		}

	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
			ctx.Fail(err)
		}
	}
}

// createHTTPServer creates an HTTP server with secure defaults
func createHTTPServer(addr string, handler http.Handler, tlsConfig ServerTLSConfig) *http.Server {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	if tlsConfig.Enabled {
		server.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			CurvePreferences: []tls.CurveID{
				tls.X25519,
				tls.CurveP256,
			},
			CipherSuites: []uint16{
				tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
				tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
				tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305,
				tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305,
			},
		}
	}

	return server
}
