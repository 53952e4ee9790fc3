package agent

import (
	"context"
	"errors"
	"sync"
	"testing"

	ai "github.com/callaby/bowline"
	"github.com/callaby/bowline/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider implements ai.ChatProvider for testing by replaying a
// fixed sequence of stream events per call.
type scriptedProvider struct {
	mu       sync.Mutex
	scripts  [][]ai.StreamEvent
	calls    int
	received [][]ai.Message
}

func (p *scriptedProvider) script() []ai.StreamEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var script []ai.StreamEvent
	if p.calls < len(p.scripts) {
		script = p.scripts[p.calls]
	}
	p.calls++
	return script
}

func (p *scriptedProvider) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	p.mu.Lock()
	p.received = append(p.received, messages)
	p.mu.Unlock()

	for _, ev := range p.script() {
		if ev.Err != nil {
			return nil, ev.Err
		}
		if ev.Done {
			return ev.Response, nil
		}
	}
	return nil, ErrNoResponse
}

func (p *scriptedProvider) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	p.mu.Lock()
	p.received = append(p.received, messages)
	p.mu.Unlock()

	script := p.script()
	ch := make(chan ai.StreamEvent)
	go func() {
		defer close(ch)
		for _, ev := range script {
			select {
			case <-ctx.Done():
				ch <- ai.StreamEvent{Err: ctx.Err()}
				return
			case ch <- ev:
			}
		}
	}()
	return ch, nil
}

func (p *scriptedProvider) lastReceived() []ai.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.received) == 0 {
		return nil
	}
	return p.received[len(p.received)-1]
}

func collectEvents(ch <-chan event.Event) []event.Event {
	var events []event.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func eventTypes(events []event.Event) []event.Type {
	types := make([]event.Type, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

func userMessage(content string) ai.Message {
	return ai.Message{Role: ai.RoleUser, Content: content}
}

func TestAgent_RunStream_TextOnly(t *testing.T) {
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Delta: "Hel"},
			{Delta: "lo"},
			{Done: true, Response: &ai.Response{
				Content:      "Hello",
				FinishReason: "end_turn",
				Usage:        ai.Usage{InputTokens: 10, OutputTokens: 2},
			}},
		}},
	}
	a := New(provider)

	events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Hi")}))

	assert.Equal(t, []event.Type{
		event.RunStart,
		event.MessageStart,
		event.MessageDelta,
		event.MessageDelta,
		event.MessageEnd,
		event.RunEnd,
	}, eventTypes(events))

	// Message events share one generated ID.
	start := events[1]
	require.NotEmpty(t, start.MessageID)
	assert.Equal(t, start.MessageID, events[2].MessageID)
	assert.Equal(t, start.MessageID, events[3].MessageID)
	assert.Equal(t, start.MessageID, events[4].MessageID)
	assert.Equal(t, "Hel", events[2].Delta)
	assert.Equal(t, "lo", events[3].Delta)

	end := events[len(events)-1]
	require.NotNil(t, end.Response)
	assert.Equal(t, "Hello", end.Response.Content)
	assert.Equal(t, string(TerminationComplete), end.Message)
	assert.Empty(t, end.PendingToolCalls)
}

func TestAgent_RunStream_ToolCalls(t *testing.T) {
	pending := []ai.ToolCall{{ID: "call_1", Name: "get_weather", Arguments: `{"location":"Tokyo"}`}}
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Delta: "Let me check."},
			{ToolCall: &ai.ToolCallChunk{Index: 0, ID: "call_1", Name: "get_weather"}},
			{ToolCall: &ai.ToolCallChunk{Index: 0, Arguments: `{"location":`}},
			{ToolCall: &ai.ToolCallChunk{Index: 0, Arguments: `"Tokyo"}`}},
			{ToolCall: &ai.ToolCallChunk{Index: 0, Done: true}},
			{Done: true, Response: &ai.Response{
				Content:      "Let me check.",
				FinishReason: "tool_use",
				ToolCalls:    pending,
			}},
		}},
	}
	a := New(provider)

	events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Weather in Tokyo?")}))

	assert.Equal(t, []event.Type{
		event.RunStart,
		event.MessageStart,
		event.MessageDelta,
		event.MessageEnd, // text closes before the tool call opens
		event.ToolCallStart,
		event.ToolCallArgs,
		event.ToolCallArgs,
		event.ToolCallEnd,
		event.RunEnd,
	}, eventTypes(events))

	start := events[4]
	require.NotNil(t, start.ToolCall)
	assert.Equal(t, "call_1", start.ToolCall.ID)
	assert.Equal(t, "get_weather", start.ToolCall.Name)

	args := events[5]
	require.NotNil(t, args.ToolCall)
	assert.Equal(t, "call_1", args.ToolCall.ID)
	assert.Equal(t, `{"location":`, args.Delta)

	end := events[len(events)-1]
	assert.Equal(t, string(TerminationToolCalls), end.Message)
	assert.Equal(t, pending, end.PendingToolCalls)
}

func TestAgent_RunStream_ClosesUnterminatedCalls(t *testing.T) {
	// OpenAI-style stream: no per-call stop marker before Done.
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{ToolCall: &ai.ToolCallChunk{Index: 0, ID: "call_1", Name: "lookup"}},
			{ToolCall: &ai.ToolCallChunk{Index: 0, Arguments: `{}`}},
			{ToolCall: &ai.ToolCallChunk{Index: 1, ID: "call_2", Name: "fetch"}},
			{Done: true, Response: &ai.Response{
				FinishReason: "tool_calls",
				ToolCalls: []ai.ToolCall{
					{ID: "call_1", Name: "lookup", Arguments: `{}`},
					{ID: "call_2", Name: "fetch", Arguments: `{}`},
				},
			}},
		}},
	}
	a := New(provider)

	events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Go")}))

	assert.Equal(t, []event.Type{
		event.RunStart,
		event.ToolCallStart,
		event.ToolCallArgs,
		event.ToolCallStart,
		event.ToolCallEnd,
		event.ToolCallEnd,
		event.RunEnd,
	}, eventTypes(events))

	// Both calls are closed in arrival order.
	assert.Equal(t, "call_1", events[4].ToolCall.ID)
	assert.Equal(t, "call_2", events[5].ToolCall.ID)
}

func TestAgent_RunStream_MaxTokens(t *testing.T) {
	for _, reason := range []string{"max_tokens", "length", "MAX_TOKENS"} {
		t.Run(reason, func(t *testing.T) {
			provider := &scriptedProvider{
				scripts: [][]ai.StreamEvent{{
					{Delta: "Truncated"},
					{Done: true, Response: &ai.Response{Content: "Truncated", FinishReason: reason}},
				}},
			}
			a := New(provider)

			events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Hi")}))

			end := events[len(events)-1]
			assert.Equal(t, event.RunEnd, end.Type)
			assert.Equal(t, string(TerminationMaxTokens), end.Message)
		})
	}
}

func TestAgent_RunStream_StreamError(t *testing.T) {
	streamErr := errors.New("connection reset")
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Delta: "partial"},
			{Err: streamErr},
		}},
	}
	a := New(provider)

	events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Hi")}))

	last := events[len(events)-1]
	assert.Equal(t, event.RunError, last.Type)
	assert.ErrorIs(t, last.Error, streamErr)
}

func TestAgent_RunStream_EmptyMessages(t *testing.T) {
	a := New(&scriptedProvider{})

	events := collectEvents(a.RunStream(context.Background(), nil))

	assert.Equal(t, []event.Type{event.RunStart, event.RunError}, eventTypes(events))
	assert.ErrorIs(t, events[1].Error, ai.ErrEmptyInput)
}

func TestAgent_RunStream_NoFinalResponse(t *testing.T) {
	// Stream closes without a Done event.
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Delta: "partial"},
		}},
	}
	a := New(provider)

	events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Hi")}))

	last := events[len(events)-1]
	assert.Equal(t, event.RunError, last.Type)
	assert.ErrorIs(t, last.Error, ErrNoResponse)
}

func TestAgent_RunStream_CancelledBeforeCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(&scriptedProvider{})

	events := collectEvents(a.RunStream(ctx, []ai.Message{userMessage("Hi")}))

	assert.Equal(t, []event.Type{event.RunStart, event.RunEnd}, eventTypes(events))
	assert.Equal(t, string(TerminationCancelled), events[1].Message)
}

func TestAgent_RunStream_State(t *testing.T) {
	state := map[string]any{"counter": 1}
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Done: true, Response: &ai.Response{Content: "ok", FinishReason: "end_turn"}},
		}},
	}
	a := New(provider)

	events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Hi")}, WithState(state)))

	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, event.RunStart, events[0].Type)
	assert.Equal(t, event.StateSnapshot, events[1].Type)
	assert.Equal(t, state, events[1].State)
}

func TestAgent_RunStream_ResumeReusesAssistantTurn(t *testing.T) {
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Delta: "It is sunny."},
			{Done: true, Response: &ai.Response{Content: "It is sunny.", FinishReason: "end_turn"}},
		}},
	}
	a := New(provider)

	calls := []ai.ToolCall{{ID: "call_1", Name: "get_weather", Arguments: `{"location":"Tokyo"}`}}
	messages := []ai.Message{
		userMessage("Weather in Tokyo?"),
		{Role: ai.RoleAssistant, ToolCalls: calls},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_1", Content: `{"temp": 21}`}),
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_2", Content: "ignored extra"}),
	}

	events := collectEvents(a.RunStream(context.Background(), messages))
	assert.Equal(t, event.RunEnd, events[len(events)-1].Type)

	sent := provider.lastReceived()
	require.Len(t, sent, 3)
	assert.Equal(t, ai.RoleAssistant, sent[1].Role)
	assert.Equal(t, calls, sent[1].ToolCalls)

	// Trailing tool messages are merged into one result turn.
	assert.Equal(t, ai.RoleTool, sent[2].Role)
	require.Len(t, sent[2].ToolResults, 2)
	assert.Equal(t, "call_1", sent[2].ToolResults[0].ToolCallID)
	assert.Equal(t, "call_2", sent[2].ToolResults[1].ToolCallID)
}

func TestAgent_RunStream_ResumeSynthesizesAssistantTurn(t *testing.T) {
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Done: true, Response: &ai.Response{Content: "Done.", FinishReason: "end_turn"}},
		}},
	}
	a := New(provider)

	messages := []ai.Message{
		userMessage("Weather in Tokyo?"),
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_1", Content: `{"temp": 21}`}),
	}

	events := collectEvents(a.RunStream(context.Background(), messages))
	assert.Equal(t, event.RunEnd, events[len(events)-1].Type)

	sent := provider.lastReceived()
	require.Len(t, sent, 3)

	// A minimal assistant turn is reconstructed from the result IDs.
	assert.Equal(t, ai.RoleAssistant, sent[1].Role)
	require.Len(t, sent[1].ToolCalls, 1)
	assert.Equal(t, "call_1", sent[1].ToolCalls[0].ID)
	assert.Equal(t, "{}", sent[1].ToolCalls[0].Arguments)

	assert.Equal(t, ai.RoleTool, sent[2].Role)
}

func TestAgent_Run(t *testing.T) {
	t.Run("returns final result", func(t *testing.T) {
		provider := &scriptedProvider{
			scripts: [][]ai.StreamEvent{{
				{Delta: "Hello"},
				{Done: true, Response: &ai.Response{
					Content:      "Hello",
					FinishReason: "end_turn",
					Usage:        ai.Usage{InputTokens: 12, OutputTokens: 3},
				}},
			}},
		}
		a := New(provider)

		result, err := a.Run(context.Background(), []ai.Message{userMessage("Hi")})

		require.NoError(t, err)
		assert.Equal(t, "Hello", result.Content())
		assert.Equal(t, TerminationComplete, result.Termination)
		assert.Equal(t, ai.Usage{InputTokens: 12, OutputTokens: 3}, result.Usage())
		assert.Empty(t, result.PendingToolCalls)
	})

	t.Run("surfaces pending tool calls", func(t *testing.T) {
		pending := []ai.ToolCall{{ID: "call_1", Name: "lookup", Arguments: `{}`}}
		provider := &scriptedProvider{
			scripts: [][]ai.StreamEvent{{
				{ToolCall: &ai.ToolCallChunk{Index: 0, ID: "call_1", Name: "lookup"}},
				{ToolCall: &ai.ToolCallChunk{Index: 0, Done: true}},
				{Done: true, Response: &ai.Response{FinishReason: "tool_use", ToolCalls: pending}},
			}},
		}
		a := New(provider)

		result, err := a.Run(context.Background(), []ai.Message{userMessage("Hi")})

		require.NoError(t, err)
		assert.Equal(t, TerminationToolCalls, result.Termination)
		assert.Equal(t, pending, result.PendingToolCalls)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		streamErr := errors.New("boom")
		provider := &scriptedProvider{
			scripts: [][]ai.StreamEvent{{
				{Err: streamErr},
			}},
		}
		a := New(provider)

		result, err := a.Run(context.Background(), []ai.Message{userMessage("Hi")})

		assert.ErrorIs(t, err, streamErr)
		assert.Equal(t, TerminationError, result.Termination)
	})
}

func TestAgent_DefaultOptionsApply(t *testing.T) {
	provider := &scriptedProvider{
		scripts: [][]ai.StreamEvent{{
			{Done: true, Response: &ai.Response{Content: "ok", FinishReason: "end_turn"}},
		}},
	}
	state := map[string]any{"theme": "dark"}
	a := New(provider, WithState(state))

	events := collectEvents(a.RunStream(context.Background(), []ai.Message{userMessage("Hi")}))

	assert.Equal(t, event.StateSnapshot, events[1].Type)
	assert.Equal(t, state, events[1].State)
}
