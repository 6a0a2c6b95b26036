// Package api provides the HTTP API for running simulations remotely.
// GET endpoints are read-only (strategy catalog, archived runs).
// POST /api/v1/simulate executes a run and is rate limited per IP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/talgya/dilemma-lab/internal/catalog"
	"github.com/talgya/dilemma-lab/internal/engine"
	"github.com/talgya/dilemma-lab/internal/store"
)

// Server serves simulations and archived results over HTTP.
type Server struct {
	Catalog *catalog.Service
	DB      *store.DB // nil disables archival endpoints
	Port    int

	// Archive every simulate request's result when a DB is attached.
	ArchiveRuns bool
}

// Start blocks serving the HTTP API until the listener fails.
func (s *Server) Start() error {
	simLimiter := NewRateLimiter(60, time.Hour)

	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/health", s.handleHealth)
	mux.HandleFunc("/api/v1/strategies", s.handleStrategies)
	mux.HandleFunc("/api/v1/strategies/", s.handleStrategyDetail)
	mux.HandleFunc("/api/v1/runs", s.handleRuns)
	mux.HandleFunc("/api/v1/runs/", s.handleRunDetail)
	mux.HandleFunc("/api/v1/simulate", RateLimitMiddleware(simLimiter, s.handleSimulate))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "archive", s.DB != nil && s.ArchiveRuns)

	return http.ListenAndServe(addr, corsMiddleware(mux))
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"archive": s.DB != nil,
	})
}

// handleSimulate runs a simulation from the POSTed config and returns the
// full result. The config uses the same shape as CLI config files.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var cfg engine.Config
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&cfg); err != nil {
		http.Error(w, "invalid config json: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := engine.Run(cfg)
	if err != nil {
		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) {
			http.Error(w, cfgErr.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("simulation failed", "error", err)
		http.Error(w, "simulation failed", http.StatusInternalServerError)
		return
	}

	var runID string
	if s.DB != nil && s.ArchiveRuns {
		runID, err = s.DB.SaveRun(cfg, res)
		if err != nil {
			slog.Error("run archival failed", "error", err)
		}
	}

	writeJSON(w, map[string]any{
		"run_id": runID,
		"result": res,
	})
}

func (s *Server) handleStrategies(w http.ResponseWriter, r *http.Request) {
	descs, err := s.Catalog.Descriptions()
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		http.Error(w, "strategy catalog unavailable", http.StatusInternalServerError)
		return
	}
	writeJSON(w, descs)
}

func (s *Server) handleStrategyDetail(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/api/v1/strategies/")
	if key == "" {
		s.handleStrategies(w, r)
		return
	}

	desc, err := s.Catalog.Description(key)
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		http.Error(w, "strategy catalog unavailable", http.StatusInternalServerError)
		return
	}
	if desc == "" {
		http.Error(w, "unknown strategy", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"strategy": key, "description": desc})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}

	runs, err := s.DB.ListRuns(50)
	if err != nil {
		slog.Error("run listing failed", "error", err)
		http.Error(w, "run listing failed", http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, runs)
}

func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "archive not available", http.StatusServiceUnavailable)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/runs/")
	if id == "" {
		s.handleRuns(w, r)
		return
	}

	run, err := s.DB.GetRun(id)
	if err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}
	writeJSON(w, run)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}
