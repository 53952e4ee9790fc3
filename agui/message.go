package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	ai "github.com/callaby/bowline"
)

// Role constants matching AG-UI protocol.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleTool      = "tool"
)

// ToBowlineMessages converts AG-UI messages to bowline messages.
func ToBowlineMessages(msgs []events.Message) []ai.Message {
	result := make([]ai.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, ToBowlineMessage(msg))
	}
	return result
}

// ToBowlineMessage converts a single AG-UI message to a bowline message.
func ToBowlineMessage(msg events.Message) ai.Message {
	m := ai.Message{
		ID:   msg.ID,
		Role: toBowlineRole(msg.Role),
	}

	if msg.Content != nil {
		m.Content = *msg.Content
	}

	// Convert tool calls (for assistant messages)
	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]ai.ToolCall, len(msg.ToolCalls))
		for i, call := range msg.ToolCalls {
			m.ToolCalls[i] = ai.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			}
		}
	}

	// Convert tool result (for tool messages)
	if msg.ToolCallID != nil && msg.Content != nil {
		m.ToolResults = []ai.ToolResult{{
			ToolCallID: *msg.ToolCallID,
			Content:    *msg.Content,
		}}
	}

	return m
}

// FromBowlineMessages converts bowline messages to AG-UI messages.
func FromBowlineMessages(msgs []ai.Message) []events.Message {
	result := make([]events.Message, 0, len(msgs))
	for _, msg := range msgs {
		result = append(result, FromBowlineMessage(msg))
	}
	return result
}

// FromBowlineMessage converts a single bowline message to an AG-UI message.
// A message ID is generated if the message does not carry one.
func FromBowlineMessage(msg ai.Message) events.Message {
	id := msg.ID
	if id == "" {
		id = events.GenerateMessageID()
	}
	m := events.Message{
		ID:   id,
		Role: fromBowlineRole(msg.Role),
	}

	if msg.Content != "" {
		content := msg.Content
		m.Content = &content
	}

	// Convert tool calls (for assistant messages)
	if len(msg.ToolCalls) > 0 {
		m.ToolCalls = make([]events.ToolCall, len(msg.ToolCalls))
		for i, call := range msg.ToolCalls {
			m.ToolCalls[i] = events.ToolCall{
				ID:   call.ID,
				Type: "function",
				Function: events.Function{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			}
		}
	}

	// A tool message carries a single result on the wire
	if len(msg.ToolResults) == 1 {
		callID := msg.ToolResults[0].ToolCallID
		content := msg.ToolResults[0].Content
		m.ToolCallID = &callID
		m.Content = &content
	}

	return m
}

// toBowlineRole converts an AG-UI role string to a bowline Role.
func toBowlineRole(role string) ai.Role {
	switch role {
	case RoleUser:
		return ai.RoleUser
	case RoleAssistant:
		return ai.RoleAssistant
	case RoleSystem:
		return ai.RoleSystem
	case RoleTool:
		return ai.RoleTool
	default:
		return ai.RoleUser
	}
}

// fromBowlineRole converts a bowline Role to an AG-UI role string.
func fromBowlineRole(role ai.Role) string {
	switch role {
	case ai.RoleUser:
		return RoleUser
	case ai.RoleAssistant:
		return RoleAssistant
	case ai.RoleSystem:
		return RoleSystem
	case ai.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}
