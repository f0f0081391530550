package rest

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/aniketri/real-insights-data/pkg/tlsutil"
)

// Server wraps an http.Server serving the router.
type Server struct {
	srv    *http.Server
	logger *slog.Logger
}

// NewServer creates the HTTP server for addr.
func NewServer(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// EnableTLS makes the server terminate TLS with the given key pair.
func (s *Server) EnableTLS(certFile, keyFile string) error {
	cfg, err := tlsutil.ServerConfig(certFile, keyFile)
	if err != nil {
		return err
	}
	s.srv.TLSConfig = cfg
	return nil
}

// Serve listens on the configured address. It returns nil after Shutdown.
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	if s.srv.TLSConfig != nil {
		lis = tls.NewListener(lis, s.srv.TLSConfig)
	}
	s.logger.Info("HTTP server listening", "addr", lis.Addr().String(), "tls", s.srv.TLSConfig != nil)
	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http serve: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.srv.Shutdown(ctx)
}
