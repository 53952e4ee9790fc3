package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/callaby/bowline"
)

// Common model identifiers.
const (
	ClaudeOpus45   = "claude-opus-4-5"
	ClaudeSonnet45 = "claude-sonnet-4-5"
	ClaudeHaiku45  = "claude-haiku-4-5"

	// DefaultModel is the recommended default model.
	DefaultModel = ClaudeSonnet45
)

const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

func (c *Client) buildParams(messages []ai.Message, options *ai.Options) anthropic.MessageNewParams {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	if options.System != "" {
		system = append([]anthropic.TextBlockParam{{Text: options.System}}, system...)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" && options.ToolChoice != ai.ToolChoiceNone {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	options := ai.ApplyOptions(opts...)
	params := c.buildParams(messages, options)

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapError(err)
	}

	content := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &ai.Response{
		Content:      content,
		FinishReason: string(resp.StopReason),
		Usage: ai.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
		ToolCalls: extractToolCalls(resp.Content),
	}, nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// Text arrives as Delta events; tool calls arrive incrementally as
// ToolCallChunk events keyed by content block index.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	options := ai.ApplyOptions(opts...)
	params := c.buildParams(messages, options)

	stream := c.client.Messages.NewStreaming(ctx, params)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		var acc anthropic.Message

		// Content block indexes holding tool_use blocks, so block stops
		// can be attributed to the right call.
		toolBlocks := make(map[int64]bool)

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			switch event.Type {
			case "content_block_start":
				start := event.AsContentBlockStart()
				if start.ContentBlock.Type == "tool_use" {
					toolBlocks[start.Index] = true
					ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
						Index: int(start.Index),
						ID:    start.ContentBlock.ID,
						Name:  start.ContentBlock.Name,
					}}
				}
			case "content_block_delta":
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" {
					ch <- ai.StreamEvent{Delta: textDelta.Text}
				} else if jsonDelta := delta.Delta.AsInputJSONDelta(); jsonDelta.Type == "input_json_delta" {
					ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
						Index:     int(delta.Index),
						Arguments: jsonDelta.PartialJSON,
					}}
				}
			case "content_block_stop":
				stop := event.AsContentBlockStop()
				if toolBlocks[stop.Index] {
					delete(toolBlocks, stop.Index)
					ch <- ai.StreamEvent{ToolCall: &ai.ToolCallChunk{
						Index: int(stop.Index),
						Done:  true,
					}}
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- ai.StreamEvent{Err: wrapError(err)}
			return
		}

		content := ""
		for _, block := range acc.Content {
			if block.Type == "text" {
				content += block.Text
			}
		}

		ch <- ai.StreamEvent{
			Done: true,
			Response: &ai.Response{
				Content:      content,
				FinishReason: string(acc.StopReason),
				Usage: ai.Usage{
					InputTokens:  int(acc.Usage.InputTokens),
					OutputTokens: int(acc.Usage.OutputTokens),
				},
				ToolCalls: extractToolCalls(acc.Content),
			},
		}
	}()

	return ch, nil
}

var _ ai.ChatProvider = (*Client)(nil)
