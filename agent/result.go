package agent

import (
	ai "github.com/callaby/bowline"
)

// TerminationReason indicates why the run stopped.
type TerminationReason string

const (
	// TerminationComplete indicates normal completion (no tool calls).
	TerminationComplete TerminationReason = "complete"

	// TerminationToolCalls indicates the model requested tool calls and is
	// waiting for their results.
	TerminationToolCalls TerminationReason = "tool_calls"

	// TerminationMaxTokens indicates the response was truncated by the
	// token limit.
	TerminationMaxTokens TerminationReason = "max_tokens"

	// TerminationError indicates an unrecoverable error occurred.
	TerminationError TerminationReason = "error"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"
)

// Result represents the final outcome of a run.
type Result struct {
	// Response is the final response from the model.
	Response *ai.Response

	// Termination indicates why the run stopped.
	Termination TerminationReason

	// PendingToolCalls holds the tool calls awaiting frontend execution
	// when Termination is TerminationToolCalls.
	PendingToolCalls []ai.ToolCall

	// Error contains any error that caused termination (if applicable).
	Error error
}

// Content returns the text content of the final response, or an empty
// string if the run produced none.
func (r *Result) Content() string {
	if r.Response == nil {
		return ""
	}
	return r.Response.Content
}

// Usage returns the token usage of the final response.
func (r *Result) Usage() ai.Usage {
	if r.Response == nil {
		return ai.Usage{}
	}
	return r.Response.Usage
}
