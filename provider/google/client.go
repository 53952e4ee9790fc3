// Package google implements the bowline ChatProvider interface on top of
// the Google GenAI SDK, using the Gemini API backend.
package google

import (
	"context"
	"encoding/json"

	ai "github.com/callaby/bowline"
	"google.golang.org/genai"
)

// Common model identifiers.
const (
	Gemini3Pro    = "gemini-3.0-pro"
	Gemini25Pro   = "gemini-2.5-pro"
	Gemini25Flash = "gemini-2.5-flash"

	// DefaultModel is the recommended default model.
	DefaultModel = Gemini25Flash
)

// Client wraps the Google GenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildRequest(messages []ai.Message, options *ai.Options) (string, []*genai.Content, *genai.GenerateContentConfig) {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents := convertMessages(messages)

	config := &genai.GenerateContentConfig{}
	if options.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: options.System}},
		}
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return model, contents, config
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	model, contents, config := c.buildRequest(messages, options)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}

	content := ""
	var toolCalls []ai.ToolCall
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
		toolCalls = extractToolCalls(resp.Candidates[0].Content.Parts)
	}

	finishReason := ""
	if len(resp.Candidates) > 0 {
		finishReason = string(resp.Candidates[0].FinishReason)
	}

	usage := ai.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &ai.Response{
		Content:      content,
		FinishReason: finishReason,
		Usage:        usage,
		ToolCalls:    toolCalls,
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Gemini delivers function calls as complete parts rather than argument
// fragments, so each one is emitted as a full open/arguments/close chunk
// sequence to keep the chunk protocol uniform across providers.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)
	model, contents, config := c.buildRequest(messages, options)

	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)

		var fullContent string
		var finishReason string
		var usage ai.Usage
		var allParts []*genai.Part

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				ch <- ai.StreamEvent{Err: wrapError(err)}
				return
			}

			// Check for content filtering/blocking
			if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
				ch <- ai.StreamEvent{
					Err: &BlockedError{Reason: string(resp.PromptFeedback.BlockReason)},
				}
				return
			}

			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				for _, part := range resp.Candidates[0].Content.Parts {
					index := len(allParts)
					allParts = append(allParts, part)

					if part.Text != "" {
						fullContent += part.Text
						ch <- ai.StreamEvent{Delta: part.Text}
					}
					if part.FunctionCall != nil {
						args, _ := json.Marshal(part.FunctionCall.Args)
						ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
							Index: index,
							ID:    callID(index, part.FunctionCall.Name),
							Name:  part.FunctionCall.Name,
						}}
						ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
							Index:     index,
							Arguments: string(args),
						}}
						ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
							Index: index,
							Done:  true,
						}}
					}
				}
				if resp.Candidates[0].FinishReason != "" {
					finishReason = string(resp.Candidates[0].FinishReason)
				}
			}

			if resp.UsageMetadata != nil {
				usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
				usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			}
		}

		// Send final event with complete response
		ch <- ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      fullContent,
				FinishReason: finishReason,
				Usage:        usage,
				ToolCalls:    extractToolCalls(allParts),
			},
		}
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
