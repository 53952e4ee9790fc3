package google

import (
	"encoding/json"
	"strings"

	ai "github.com/callaby/bowline"
	"google.golang.org/genai"
)

// convertMessages converts bowline messages to genai contents.
func convertMessages(messages []ai.Message) []*genai.Content {
	var contents []*genai.Content

	for _, msg := range messages {
		role := "user"
		switch msg.Role {
		case ai.RoleUser:
			role = "user"
		case ai.RoleAssistant:
			role = "model"
		case ai.RoleSystem:
			// Gemini has no system role in the conversation; system
			// prompts are carried as user turns.
			role = "user"
		case ai.RoleTool:
			// Tool results are sent as user messages with FunctionResponse parts
			role = "user"
		}

		var parts []*genai.Part
		if msg.Content != "" {
			parts = append(parts, &genai.Part{Text: msg.Content})
		}

		// Handle tool calls (assistant messages)
		for _, call := range msg.ToolCalls {
			var args map[string]any
			json.Unmarshal([]byte(call.Arguments), &args)
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					Name: call.Name,
					Args: args,
				},
			})
		}

		// Handle tool results
		for _, result := range msg.ToolResults {
			// Parse the content as JSON if possible, otherwise wrap as text
			var response map[string]any
			if err := json.Unmarshal([]byte(result.Content), &response); err != nil {
				response = map[string]any{"result": result.Content}
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					Name:     functionNameFromCallID(result.ToolCallID),
					Response: response,
				},
			})
		}

		if len(parts) > 0 {
			contents = append(contents, &genai.Content{
				Role:  role,
				Parts: parts,
			})
		}
	}

	return contents
}

// functionNameFromCallID recovers the function name from a synthesized
// call ID of the form "call_<index>_<name>". Gemini matches function
// responses by name rather than by call ID.
func functionNameFromCallID(id string) string {
	fields := strings.SplitN(id, "_", 3)
	if len(fields) == 3 && fields[0] == "call" {
		return fields[2]
	}
	return id
}
