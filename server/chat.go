package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	ai "github.com/callaby/bowline"
	"github.com/callaby/bowline/agent"
	"github.com/callaby/bowline/agui"
	"github.com/callaby/bowline/retry"
)

// chatResponse is the JSON document returned by the non-streaming
// endpoint. The message carries any pending tool calls the frontend
// must execute before continuing the thread.
type chatResponse struct {
	ThreadID    string             `json:"threadId"`
	RunID       string             `json:"runId"`
	Message     aguievents.Message `json:"message"`
	Termination string             `json:"termination"`
	Usage       ai.Usage           `json:"usage"`
}

// handleChat runs the agent without streaming and returns the final
// result as one JSON document. The request shape is the same
// RunAgentInput the streaming endpoint accepts.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		h.log.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	prepared, err := input.Prepare()
	if err != nil {
		h.log.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	threadID := prepared.ThreadID
	if threadID == "" {
		threadID = aguievents.GenerateThreadID()
	}
	runID := prepared.RunID
	if runID == "" {
		runID = aguievents.GenerateRunID()
	}

	log := h.log.With("thread_id", threadID, "run_id", runID)
	log.Info("chat request started", "message_count", len(prepared.Messages))

	// Streaming runs surface failures mid-stream, but here the response
	// has not started, so transient provider errors can be retried.
	result, err := retry.Do(r.Context(), h.cfg.Retry, func() (*agent.Result, error) {
		return h.agent.Run(r.Context(), prepared.Messages, runOptions(prepared)...)
	})
	if err != nil {
		status := statusFromError(err)
		log.Error("chat request failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"status", status,
			"error", err,
		)
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	assistant := ai.Message{
		Role:      ai.RoleAssistant,
		Content:   result.Content(),
		ToolCalls: result.PendingToolCalls,
	}

	log.Info("chat request completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"termination", result.Termination,
		"pending_tool_calls", len(result.PendingToolCalls),
	)

	writeJSON(w, http.StatusOK, chatResponse{
		ThreadID:    threadID,
		RunID:       runID,
		Message:     agui.FromBowlineMessage(assistant),
		Termination: string(result.Termination),
		Usage:       result.Usage(),
	})
}

// statusFromError maps run errors to HTTP status codes. Provider API
// errors keep their upstream status; everything else falls back to the
// error category.
func statusFromError(err error) int {
	if code := ai.StatusCodeOf(err); code != 0 {
		return code
	}
	switch {
	case errors.Is(err, ai.ErrEmptyInput), ai.IsUserInput(err):
		return http.StatusBadRequest
	case ai.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
