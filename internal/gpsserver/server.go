// Package gpsserver serves the mock GPS endpoint the built-in tool talks to.
package gpsserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/harunnryd/pace/internal/config"
)

const (
	GPSPath    = "/ai/gps"
	HealthPath = "/health"
)

// Position is the payload returned for every lookup.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Server struct {
	cfg         config.ServerConfig
	position    Position
	server      *http.Server
	listener    net.Listener
	shutdownTTL time.Duration
	initialized bool
	started     bool
	mu          sync.RWMutex
}

func New(cfg config.ServerConfig, gps config.GPSConfig) *Server {
	return &Server{
		cfg:      cfg,
		position: Position{Latitude: gps.Latitude, Longitude: gps.Longitude},
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(GPSPath, s.handleGPS)
	mux.HandleFunc(HealthPath, s.handleHealth)
	return mux
}

func (s *Server) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	readTimeout, err := config.DurationOrDefault(s.cfg.ReadTimeout, config.DefaultServerReadTimeout)
	if err != nil {
		return fmt.Errorf("parse server read timeout: %w", err)
	}
	writeTimeout, err := config.DurationOrDefault(s.cfg.WriteTimeout, config.DefaultServerWriteTimeout)
	if err != nil {
		return fmt.Errorf("parse server write timeout: %w", err)
	}
	idleTimeout, err := config.DurationOrDefault(s.cfg.IdleTimeout, config.DefaultServerIdleTimeout)
	if err != nil {
		return fmt.Errorf("parse server idle timeout: %w", err)
	}
	shutdownTimeout, err := config.DurationOrDefault(s.cfg.ShutdownTimeout, config.DefaultServerShutdownTimeout)
	if err != nil {
		return fmt.Errorf("parse server shutdown timeout: %w", err)
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	s.shutdownTTL = shutdownTimeout

	s.initialized = true
	slog.Info("GPS server initialized", "port", s.cfg.Port)
	return nil
}

// Start binds the listener and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return fmt.Errorf("GPS server not initialized")
	}
	if s.started {
		return nil
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	go func() {
		slog.Info("GPS server listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("GPS server failed", "error", err)
		}
	}()

	s.started = true
	return nil
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		slog.Info("GPS server not started, skipping stop")
		return nil
	}

	slog.Info("Stopping GPS server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTTL)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		slog.Error("GPS server shutdown error", "error", err)
		return err
	}

	s.started = false
	s.listener = nil
	slog.Info("GPS server stopped")
	return nil
}

func (s *Server) handleGPS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var args map[string]interface{}
	if body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10)); err == nil && len(body) > 0 {
		_ = json.Unmarshal(body, &args)
	}
	slog.Debug("GPS lookup", "args", args)

	writeJSON(w, s.position)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Write response failed", "error", err)
	}
}
