package agent

import (
	ai "github.com/callaby/bowline"
)

// planTurn shapes the conversation for the next model call. A history whose
// tail is tool result messages resumes the exchange that requested them;
// anything else starts a fresh turn.
func planTurn(messages []ai.Message) ([]ai.Message, error) {
	if len(messages) == 0 {
		return nil, ai.ErrEmptyInput
	}

	tail := len(messages)
	for tail > 0 && messages[tail-1].Role == ai.RoleTool {
		tail--
	}
	if tail == len(messages) {
		// Fresh turn
		return messages, nil
	}

	// Merge trailing tool messages into a single result turn.
	var results []ai.ToolResult
	for _, msg := range messages[tail:] {
		results = append(results, msg.ToolResults...)
	}
	if len(results) == 0 {
		// Trailing tool messages carried nothing; drop them.
		if tail == 0 {
			return nil, ai.ErrEmptyInput
		}
		return messages[:tail], nil
	}

	history := make([]ai.Message, 0, tail+2)
	history = append(history, messages[:tail]...)

	// Providers require the assistant turn that requested the tools to
	// precede the results. Reconstruct it if the client did not echo it.
	if !endsWithToolCallTurn(history) {
		history = append(history, syntheticToolCallTurn(results))
	}
	history = append(history, ai.NewToolResultMessage(results...))

	return history, nil
}

func endsWithToolCallTurn(messages []ai.Message) bool {
	if len(messages) == 0 {
		return false
	}
	last := messages[len(messages)-1]
	return last.Role == ai.RoleAssistant && len(last.ToolCalls) > 0
}

// syntheticToolCallTurn reconstructs the assistant turn that requested the
// given results. The tool names are not recoverable from results alone, so
// the calls carry empty names and arguments.
func syntheticToolCallTurn(results []ai.ToolResult) ai.Message {
	calls := make([]ai.ToolCall, 0, len(results))
	for _, result := range results {
		calls = append(calls, ai.ToolCall{
			ID:        result.ToolCallID,
			Arguments: "{}",
		})
	}
	return ai.Message{
		Role:      ai.RoleAssistant,
		ToolCalls: calls,
	}
}
