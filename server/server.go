// Package server exposes an agent over the AG-UI protocol via HTTP.
//
// The handler serves four endpoints:
//
//	POST /       - run the agent, streaming AG-UI events via SSE
//	GET  /       - service descriptor
//	GET  /health - liveness check
//	POST /chat   - run the agent, returning one JSON document
//
// Tools listed in the request are forwarded to the model but never
// executed here; the model's tool calls are streamed back to the
// frontend, which runs them and submits the results as tool messages
// on the next request.
package server

import (
	"log/slog"
	"net/http"

	"github.com/callaby/bowline/agent"
	"github.com/callaby/bowline/agui"
	"github.com/callaby/bowline/retry"
)

// Config carries handler settings.
type Config struct {
	// Name and Version appear in the service descriptor.
	Name    string
	Version string

	// Retry governs non-streaming runs when the provider fails
	// transiently. The zero value makes a single attempt.
	Retry retry.Config
}

// Handler routes AG-UI protocol requests to an agent.
type Handler struct {
	agent *agent.Agent
	cfg   Config
	log   *slog.Logger
}

// New creates an http.Handler serving the AG-UI endpoints, with CORS
// headers for browser frontends. A nil logger falls back to
// slog.Default().
func New(a *agent.Agent, cfg Config, log *slog.Logger) http.Handler {
	if cfg.Name == "" {
		cfg.Name = "bowline"
	}
	if cfg.Version == "" {
		cfg.Version = "0.1.0"
	}
	if log == nil {
		log = slog.Default()
	}

	h := &Handler{agent: a, cfg: cfg, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleRoot)
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/chat", h.handleChat)

	return corsMiddleware(mux)
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleDescriptor(w, r)
	case http.MethodPost:
		h.handleStream(w, r)
	default:
		h.log.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleDescriptor reports the service name and its endpoints.
func (h *Handler) handleDescriptor(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    h.cfg.Name,
		"version": h.cfg.Version,
		"endpoints": map[string]string{
			"run":    "POST /",
			"chat":   "POST /chat",
			"health": "GET /health",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// runOptions builds the per-run agent options from a prepared request.
func runOptions(prepared *agui.PreparedInput) []agent.Option {
	opts := []agent.Option{agent.WithTools(prepared.BowlineTools())}
	if prepared.State != nil {
		opts = append(opts, agent.WithState(prepared.State))
	}
	return opts
}
