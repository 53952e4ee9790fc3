// Package openai implements the bowline ChatProvider interface on top of
// the official OpenAI Go SDK, including incremental tool call streaming.
package openai

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	ai "github.com/callaby/bowline"
)

// Common model identifiers.
const (
	GPT52    = "gpt-5.2"
	GPT51    = "gpt-5.1"
	GPT5Mini = "gpt-5-mini"

	// DefaultModel is the recommended default model.
	DefaultModel = GPT52
)

// Client wraps the OpenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a new OpenAI client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the OpenAI client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildParams(messages []ai.Message, options *ai.Options) openai.ChatCompletionNewParams {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	convertedMessages := convertMessages(messages)
	if options.System != "" {
		convertedMessages = append(
			[]openai.ChatCompletionMessageParamUnion{openai.SystemMessage(options.System)},
			convertedMessages...,
		)
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertedMessages,
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	params := c.buildParams(messages, options)

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	return &ai.Response{
		Content:      resp.Choices[0].Message.Content,
		FinishReason: string(resp.Choices[0].FinishReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
		},
		ToolCalls: extractToolCalls(resp.Choices[0].Message.ToolCalls),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Text arrives as Delta events; tool calls arrive incrementally as
// ToolCallChunk events. A delta carrying a call ID opens a new call;
// deltas without one continue the call at the same index.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)
	params := c.buildParams(messages, options)
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		var acc openai.ChatCompletionAccumulator

		for stream.Next() {
			chunk := stream.Current()
			acc.AddChunk(chunk)

			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta

			if delta.Content != "" {
				ch <- ai.StreamEvent{Delta: delta.Content}
			}

			for _, tc := range delta.ToolCalls {
				if tc.ID != "" {
					ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
						Index: int(tc.Index),
						ID:    tc.ID,
						Name:  tc.Function.Name,
					}}
				}
				if tc.Function.Arguments != "" {
					ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
						Index:     int(tc.Index),
						Arguments: tc.Function.Arguments,
					}}
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- ai.StreamEvent{Err: wrapError(err)}
			return
		}

		// Send final event with complete response
		if len(acc.Choices) == 0 {
			return
		}
		completion := acc.Choices[0]
		ch <- ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      completion.Message.Content,
				FinishReason: string(completion.FinishReason),
				Usage: ai.Usage{
					InputTokens:  int(acc.Usage.PromptTokens),
					OutputTokens: int(acc.Usage.CompletionTokens),
				},
				ToolCalls: extractToolCalls(completion.Message.ToolCalls),
			},
		}
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
