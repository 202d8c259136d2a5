package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/san-kum/zntune/internal/analysis"
	"github.com/san-kum/zntune/internal/storage"
)

// FailureMessage is the only error text clients see for a failed analysis.
const FailureMessage = "analysis failed"

type Server struct {
	Router   *http.ServeMux
	hub      *Hub
	analyzer *analysis.Analyzer
	store    *storage.Store
	logger   *log.Logger
}

// NewServer wires the routes. store may be nil, in which case runs are not
// persisted and the run listing is empty.
func NewServer(a *analysis.Analyzer, store *storage.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	mux := http.NewServeMux()
	hub := NewHub(logger)
	go hub.run()

	s := &Server{
		Router:   mux,
		hub:      hub,
		analyzer: a,
		store:    store,
		logger:   logger,
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/runs", s.handleRuns)
	mux.HandleFunc("/api/runs/{id}", s.handleRun)

	s.Router = http.NewServeMux()
	s.Router.Handle("/", withCORS(mux))
	return s
}

// Close stops the websocket hub and drops its clients.
func (s *Server) Close() {
	s.hub.close()
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	serveWS(s.hub, w, r)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req analysis.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	run, err := s.analyzer.Run(r.Context(), req)
	if err != nil {
		s.logger.Printf("analyze: %v", err)
		s.hub.broadcastJSON(newEvent(EventError, map[string]string{"error": FailureMessage}))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": FailureMessage})
		return
	}

	if s.store != nil {
		if _, err := s.store.Save(run); err != nil {
			s.logger.Printf("save run %s: %v", run.ID, err)
		}
	}

	s.hub.broadcastJSON(newEvent(EventResult, run))
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	runs := []storage.RunMetadata{}
	if s.store != nil {
		var err error
		if runs, err = s.store.List(); err != nil {
			s.logger.Printf("list runs: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "listing failed"})
			return
		}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.NotFound(w, r)
		return
	}

	meta, err := s.store.Load(r.PathValue("id"))
	switch {
	case errors.Is(err, storage.ErrInvalidID):
		http.Error(w, "invalid run id", http.StatusBadRequest)
		return
	case errors.Is(err, os.ErrNotExist):
		http.NotFound(w, r)
		return
	case err != nil:
		s.logger.Printf("load run: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "load failed"})
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
