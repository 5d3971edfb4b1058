// Package http exposes a moderated chat agent over HTTP. Guardrail outcomes
// map to status codes: a policy block returns 403 with the reason, an
// unavailable backend returns 502.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/gatewright/go-guardrails/agent/core"
	"github.com/gatewright/go-guardrails/guardrail"
	obs "github.com/gatewright/go-guardrails/observability"
)

// Server wraps an agent with HTTP endpoints
type Server struct {
	agent  core.Agent
	config Config
	logger zerolog.Logger
	server *http.Server
}

// Config holds HTTP server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       zerolog.Logger
}

// NewServer creates a new HTTP server for an agent
func NewServer(agent core.Agent, config Config) *Server {
	if config.Port == 0 {
		config.Port = 8080
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 10 * time.Second
	}

	s := &Server{
		agent:  agent,
		config: config,
		logger: config.Logger,
	}

	mux := http.NewServeMux()
	s.setupRoutes(mux)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", config.Port),
		Handler:      mux,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.healthHandler)
	mux.HandleFunc("/chat", s.chatHandler)
}

// Handler returns the configured HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// ChatRequest represents an incoming chat request
type ChatRequest struct {
	Message   string            `json:"message"`
	SessionID string            `json:"session_id,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// ChatResponse represents a chat response
type ChatResponse struct {
	Message   string            `json:"message"`
	SessionID string            `json:"session_id,omitempty"`
	Meta      map[string]string `json:"meta,omitempty"`
	Blocked   bool              `json:"blocked,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// healthHandler provides a health check endpoint
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// chatHandler handles chat requests
func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := obs.ExtractHTTPContext(r.Context(), r)
	obs.InjectHTTPHeaders(w, ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		s.writeError(w, "Message is required", http.StatusBadRequest)
		return
	}

	input := core.NewTextMessage("user", req.Message)
	input.Meta = req.Meta
	if req.SessionID != "" {
		if input.Meta == nil {
			input.Meta = make(map[string]string)
		}
		input.Meta["session_id"] = req.SessionID
	}

	response, err := s.agent.Run(ctx, input)
	if err != nil {
		s.writeAgentError(w, req, err)
		return
	}

	chatResp := ChatResponse{
		Message:   response.Text(),
		SessionID: req.SessionID,
		Meta:      response.Meta,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(chatResp)
}

// writeAgentError maps agent failures to HTTP status codes
func (s *Server) writeAgentError(w http.ResponseWriter, req ChatRequest, err error) {
	if gerr, ok := guardrail.AsError(err); ok {
		switch gerr.Kind {
		case guardrail.KindContentPolicy:
			s.logger.Info().
				Str("backend", gerr.Backend).
				Str("reason", gerr.Reason).
				Msg("chat message blocked")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(ChatResponse{
				SessionID: req.SessionID,
				Blocked:   true,
				Error:     gerr.Reason,
			})
			return
		case guardrail.KindUnavailable:
			s.logger.Error().Err(err).Msg("guardrail backend unavailable")
			s.writeError(w, "Guardrail unavailable", http.StatusBadGateway)
			return
		}
	}

	s.logger.Error().Err(err).Msg("agent error")
	s.writeError(w, "Internal server error", http.StatusInternalServerError)
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ChatResponse{Error: message})
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	s.logger.Info().Int("port", s.config.Port).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
