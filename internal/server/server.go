package server

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Server wraps an *http.Server to provide start/shutdown lifecycle.
type Server struct {
	httpServer *http.Server
}

const (
	maxHeaderBytes    = 1 << 20 // 1 MB
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// Run starts the HTTP server on the given host/port using the provided
// handler. Port accepts "8000" or ":8000". No WriteTimeout is set: the
// room-status websocket holds its connection open indefinitely.
func (s *Server) Run(host, port string, handler http.Handler) error {
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	s.httpServer = &http.Server{
		Addr:              host + port,
		Handler:           handler,
		MaxHeaderBytes:    maxHeaderBytes,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, allowing in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
