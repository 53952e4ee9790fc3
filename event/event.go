// Package event provides a unified event system for streaming run output.
// The event types are designed for 1:1 mapping with the AG-UI protocol.
package event

import (
	"time"

	ai "github.com/callaby/bowline"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a run completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error occurs.
	RunError Type = "run_error"
)

// Message lifecycle events
const (
	// MessageStart fires when an assistant message begins.
	MessageStart Type = "message_start"

	// MessageDelta fires for each streaming token.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when an assistant message completes.
	MessageEnd Type = "message_end"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when a tool call begins (contains tool name).
	ToolCallStart Type = "tool_call_start"

	// ToolCallArgs fires with tool call argument fragments.
	ToolCallArgs Type = "tool_call_args"

	// ToolCallEnd fires when tool call transmission is complete.
	ToolCallEnd Type = "tool_call_end"

	// ToolCallResult fires when a frontend-supplied tool result is echoed back.
	ToolCallResult Type = "tool_call_result"
)

// State events
const (
	// StateSnapshot fires with a full copy of the run's shared state.
	StateSnapshot Type = "state_snapshot"
)

// Event represents an observable occurrence during a streaming run.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// MessageID identifies the message for Start/Delta/End correlation.
	MessageID string

	// Delta contains streaming content for MessageDelta events and
	// argument fragments for ToolCallArgs events.
	Delta string

	// Response contains the complete response for RunEnd events.
	Response *ai.Response

	// ToolCall contains the tool call for tool-related events.
	ToolCall *ai.ToolCall

	// ToolResult contains the result for ToolCallResult events.
	ToolResult *ai.ToolResult

	// State contains the full state for StateSnapshot events.
	State any

	// Error contains the error for RunError events.
	Error error

	// Message contains additional context (e.g., termination reason).
	Message string

	// PendingToolCalls contains tool calls awaiting frontend execution.
	// Set on RunEnd events when termination is due to tool calls.
	PendingToolCalls []ai.ToolCall

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Emit sends an event with timestamp to the channel (non-blocking).
func Emit(ch chan<- Event, e Event) {
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
