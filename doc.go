// Package bowline bridges AG-UI protocol frontends to hosted LLM chat APIs.
//
// The root package defines the provider-neutral conversation vocabulary:
// messages, tool declarations, streaming chunks, and categorized errors.
// Everything else builds on it:
//
//   - [github.com/callaby/bowline/provider/anthropic],
//     [github.com/callaby/bowline/provider/openai], and
//     [github.com/callaby/bowline/provider/google] implement [ChatProvider]
//     over the official SDKs.
//   - [github.com/callaby/bowline/agent] orchestrates a single run: it plans
//     the turn, streams the provider, and emits run events.
//   - [github.com/callaby/bowline/agui] speaks the AG-UI wire protocol:
//     request validation, message conversion, and event mapping.
//   - [github.com/callaby/bowline/server] serves runs over HTTP/SSE.
//   - [github.com/callaby/bowline/retry] retries transient provider
//     failures with exponential backoff.
//
// # Basic Usage
//
// Stream a turn against a provider:
//
//	p := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//	a := agent.New(p, agent.WithModel("claude-sonnet-4-5"))
//
//	events := a.RunStream(ctx, []bowline.Message{
//	    {Role: bowline.RoleUser, Content: "What is the capital of France?"},
//	})
//
//	for ev := range events {
//	    if ev.Type == event.MessageDelta {
//	        fmt.Print(ev.Delta)
//	    }
//	}
//
// # Frontend Tools
//
// Tools declared by the frontend ride through untouched. Go callers can
// declare them with [SchemaFrom]:
//
//	tools := []bowline.Tool{
//	    bowline.SchemaFrom[WeatherArgs]().Tool("get_weather", "Get the current weather"),
//	}
//
// When the model requests one, the run ends with the pending calls; the
// frontend executes them and submits a follow-up turn carrying the
// results:
//
//	results := bowline.NewToolResultMessage(bowline.ToolResult{
//	    ToolCallID: "call_abc123",
//	    Content:    `{"temperature": 22}`,
//	})
//	events = a.RunStream(ctx, append(history, results), agent.WithTools(tools))
//
// The adapter never executes tools and never loops over model calls; those
// stay on the frontend's side of the protocol.
package bowline
