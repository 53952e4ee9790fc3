// Package openai provides an OpenAI API client implementing [bowline.ChatProvider].
//
// This package wraps the official OpenAI Go SDK to provide GPT model access
// through the bowline unified interface.
//
// # Basic Usage
//
//	client := openai.New(os.Getenv("OPENAI_API_KEY"))
//
//	messages := []bowline.Message{
//	    {Role: bowline.RoleUser, Content: "Hello!"},
//	}
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// A system prompt set via [bowline.WithSystem] is sent as a leading system
// message.
//
// # Streaming
//
// ChatStream delivers text as incremental deltas and tool calls as
// incremental chunks keyed by the SDK's tool-call index. The finish_reason
// "length" surfaces in the final response when the token limit cuts the
// message short.
//
// # Model Selection
//
// Set a default model at client creation:
//
//	client := openai.New(apiKey, openai.WithModel(openai.GPT5Mini))
//
// Or per-request with [bowline.WithModel].
package openai
