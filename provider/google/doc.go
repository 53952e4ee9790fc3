// Package google provides a Google Gemini API client implementing [bowline.ChatProvider].
//
// This package wraps the Google GenAI SDK to provide Gemini model access
// through the bowline unified interface.
//
// # Basic Usage
//
// The client requires a context for initialization:
//
//	client, err := google.New(ctx, os.Getenv("GEMINI_API_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	messages := []bowline.Message{
//	    {Role: bowline.RoleUser, Content: "What's the weather like on Mars?"},
//	}
//
//	resp, err := client.Chat(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// A system prompt set via [bowline.WithSystem] becomes the request's
// system instruction. Gemini's function calls arrive whole rather than as
// partial JSON, so streamed tool-call chunks carry complete arguments.
//
// # Model Selection
//
// Set a default model at client creation:
//
//	client, err := google.New(ctx, apiKey, google.WithModel(google.Gemini3Pro))
//
// Or per-request with [bowline.WithModel].
package google
