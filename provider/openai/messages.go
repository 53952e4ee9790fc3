package openai

import (
	"github.com/openai/openai-go"
	ai "github.com/callaby/bowline"
)

// convertMessages converts bowline messages to OpenAI chat completion params.
func convertMessages(messages []ai.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case ai.RoleUser:
			converted = append(converted, openai.UserMessage(msg.Content))
		case ai.RoleAssistant:
			if len(msg.ToolCalls) > 0 {
				converted = append(converted, assistantMessageWithToolCalls(msg))
			} else {
				converted = append(converted, openai.AssistantMessage(msg.Content))
			}
		case ai.RoleTool:
			// Each tool result becomes its own tool message.
			for _, result := range msg.ToolResults {
				converted = append(converted, openai.ToolMessage(result.Content, result.ToolCallID))
			}
		}
	}
	return converted
}

func assistantMessageWithToolCalls(msg ai.Message) openai.ChatCompletionMessageParamUnion {
	toolCalls := make([]openai.ChatCompletionMessageToolCallParam, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		toolCalls = append(toolCalls, openai.ChatCompletionMessageToolCallParam{
			ID: call.ID,
			Function: openai.ChatCompletionMessageToolCallFunctionParam{
				Name:      call.Name,
				Arguments: call.Arguments,
			},
		})
	}

	assistant := openai.ChatCompletionAssistantMessageParam{
		ToolCalls: toolCalls,
	}
	if msg.Content != "" {
		assistant.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
			OfString: openai.String(msg.Content),
		}
	}
	return openai.ChatCompletionMessageParamUnion{OfAssistant: &assistant}
}
