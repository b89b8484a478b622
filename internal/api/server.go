package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dukaan-dev/sahayak/internal/command"
	"github.com/dukaan-dev/sahayak/internal/store"
)

// Server provides the HTTP API.
type Server struct {
	service *Service
	store   *store.Store
	addr    string
	log     *zap.Logger
	server  *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(service *Service, st *store.Store, addr string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{service: service, store: st, addr: addr, log: log}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", s.handleAsk)
	mux.HandleFunc("/interpret", s.handleInterpret)
	mux.HandleFunc("/execute", s.handleExecute)
	mux.HandleFunc("/aliases", s.handleAliases)
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.log.Info("starting api server", zap.String("addr", s.addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

type utteranceRequest struct {
	Utterance string `json:"utterance"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Utterance == "" {
		http.Error(w, "utterance required", http.StatusBadRequest)
		return
	}

	reply, err := s.service.Ask(req.Utterance)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleInterpret(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req utteranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Utterance == "" {
		http.Error(w, "utterance required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.service.Interpret(req.Utterance))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var cmd command.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if cmd.Type == "" {
		http.Error(w, "command type required", http.StatusBadRequest)
		return
	}

	res, err := s.service.Execute(&cmd)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAliases(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	aliases, err := s.store.ListAliases()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if aliases == nil {
		aliases = map[string]string{}
	}
	writeJSON(w, http.StatusOK, aliases)
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	OK   bool   `json:"ok"`
	DB   string `json:"db"`
	Time string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	health := HealthResponse{OK: true, DB: "ok", Time: time.Now().UTC().Format(time.RFC3339)}
	if _, err := s.store.ListAliases(); err != nil {
		health.OK = false
		health.DB = err.Error()
	}
	status := http.StatusOK
	if !health.OK {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
