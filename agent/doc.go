// Package agent executes single model turns with frontend-executed tools,
// emitting a unified event stream suitable for protocol bridging.
//
// Unlike a conventional agent loop, tools are never executed server side.
// When the model requests tool calls the run ends with those calls pending;
// the caller executes them and starts a new run whose message history
// carries the results, and the conversation picks up where it left off.
//
// # Basic Usage
//
// Create an agent around any ChatProvider, then run it:
//
//	a := agent.New(client,
//	    agent.WithModel(anthropic.DefaultModel),
//	    agent.WithSystemPrompt("You are a helpful assistant."),
//	)
//
//	events := a.RunStream(ctx, messages, agent.WithTools(tools))
//	for e := range events {
//	    switch e.Type {
//	    case event.MessageDelta:
//	        fmt.Print(e.Delta)
//	    case event.ToolCallStart:
//	        fmt.Printf("[Tool: %s]\n", e.ToolCall.Name)
//	    case event.RunEnd:
//	        fmt.Println("Done!")
//	    }
//	}
//
// # Resuming After Tool Results
//
// A run whose message history ends with tool results is treated as the
// continuation of the exchange that requested them:
//
//	messages = append(messages,
//	    ai.Message{Role: ai.RoleAssistant, ToolCalls: calls},
//	    ai.NewToolResultMessage(results...),
//	)
//	events = a.RunStream(ctx, messages, agent.WithTools(tools))
//
// If the assistant turn that requested the results is missing from the
// history, a minimal one is reconstructed from the result IDs.
//
// # Termination Conditions
//
// The run stops when any of these conditions are met:
//
//   - The model responds without tool calls (TerminationComplete)
//   - The model requests tool calls (TerminationToolCalls)
//   - The response was truncated by the token limit (TerminationMaxTokens)
//   - Context is cancelled (TerminationCancelled)
//   - An error occurs (TerminationError)
package agent
