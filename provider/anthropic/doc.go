// Package anthropic provides an Anthropic Claude API client implementing [bowline.ChatProvider].
//
// This package wraps the official Anthropic Go SDK to provide Claude model
// access through the bowline unified interface.
//
// # Basic Usage
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//
//	messages := []bowline.Message{
//	    {Role: bowline.RoleUser, Content: "Explain quantum computing briefly."},
//	}
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// # Streaming
//
// ChatStream delivers text as incremental deltas and tool calls as
// incremental chunks. Tool-use content blocks surface a chunk with ID and
// Name when the block opens, argument fragments while the model emits
// partial JSON, and a Done chunk when the block closes:
//
//	stream, err := client.ChatStream(ctx, messages, bowline.WithTools(tools))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range stream {
//	    switch {
//	    case event.Err != nil:
//	        log.Fatal(event.Err)
//	    case event.ToolCall != nil:
//	        // incremental tool call content
//	    case event.Done:
//	        // event.Response carries the accumulated message
//	    default:
//	        fmt.Print(event.Delta)
//	    }
//	}
//
// # Model Selection
//
// Set a default model at client creation:
//
//	client := anthropic.New(apiKey, anthropic.WithModel(anthropic.ClaudeOpus45))
//
// Or per-request with [bowline.WithModel].
package anthropic
