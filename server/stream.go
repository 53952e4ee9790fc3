package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	aguievents "github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"

	"github.com/callaby/bowline/agui"
)

// handleStream runs the agent and streams AG-UI events via SSE.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Parse request body
	var input agui.RunAgentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.log.Warn("invalid request body", "error", err)
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	// Validate and convert input
	prepared, err := input.Prepare()
	if err != nil {
		h.log.Warn("invalid input", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The mapper owns ID generation, so the logger reads the IDs back
	// from it rather than from the raw input.
	mapper := agui.NewMapper(prepared.ThreadID, prepared.RunID)
	log := h.log.With(
		"thread_id", mapper.ThreadID(),
		"run_id", mapper.RunID(),
	)

	log.Info("request started",
		"message_count", len(prepared.Messages),
		"tool_count", len(prepared.Tools),
	)

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Get flusher for streaming
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("streaming not supported")
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Client disconnect cancels the run via the request context.
	ctx := r.Context()
	runEvents := h.agent.RunStream(ctx, prepared.Messages, runOptions(prepared)...)

	// Stream events as SSE using the mapper's filtered stream
	var eventCount int
	var lastError error
	for aguiEvent := range mapper.MapStream(runEvents) {
		if lastError != nil {
			continue // keep draining so the mapper goroutine can exit
		}

		eventCount++
		log.Debug("sending SSE event",
			"event_type", aguiEvent.Type(),
			"event_num", eventCount,
		)

		if err := writeSSE(w, flusher, aguiEvent); err != nil {
			log.Error("failed to write SSE event", "error", err, "event_type", aguiEvent.Type())
			lastError = err
		}
	}

	duration := time.Since(start)
	if lastError != nil {
		log.Error("request failed",
			"duration_ms", duration.Milliseconds(),
			"events_sent", eventCount,
			"error", lastError,
		)
	} else {
		log.Info("request completed",
			"duration_ms", duration.Milliseconds(),
			"events_sent", eventCount,
		)
	}
}

// writeSSE writes an AG-UI event in SSE format.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev aguievents.Event) error {
	data, err := ev.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}

	// Write SSE format: event: TYPE\ndata: {json}\n\n
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type(), string(data)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	flusher.Flush()
	return nil
}
