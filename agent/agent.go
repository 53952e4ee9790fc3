package agent

import (
	"context"

	ai "github.com/callaby/bowline"
	"github.com/callaby/bowline/event"
)

// maxTokensReasons are the provider finish reasons that indicate the
// response was truncated by the token limit.
var maxTokensReasons = map[string]bool{
	"max_tokens": true, // Anthropic
	"length":     true, // OpenAI
	"MAX_TOKENS": true, // Gemini
}

// Agent runs model conversations in which tools are executed by the
// frontend rather than the server.
type Agent struct {
	provider ai.ChatProvider
	defaults []Option
}

// New creates a new Agent. Options given here apply to every run.
func New(provider ai.ChatProvider, opts ...Option) *Agent {
	return &Agent{
		provider: provider,
		defaults: opts,
	}
}

// Run executes a single turn and returns the final result.
// This is a blocking call that drains the event stream internally.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	eventCh := a.RunStream(ctx, messages, opts...)

	result := &Result{}
	for ev := range eventCh {
		switch ev.Type {
		case event.RunEnd:
			result.Response = ev.Response
			result.Termination = TerminationReason(ev.Message)
			result.PendingToolCalls = ev.PendingToolCalls

		case event.RunError:
			result.Error = ev.Error
			result.Termination = TerminationError
		}
	}

	return result, result.Error
}

// RunStream executes a single turn and returns a channel of events.
// The channel is closed when the turn completes or encounters a fatal
// error. Callers should drain the channel to ensure proper cleanup.
func (a *Agent) RunStream(ctx context.Context, messages []ai.Message, opts ...Option) <-chan event.Event {
	eventCh := event.NewChannel()

	combined := make([]Option, 0, len(a.defaults)+len(opts))
	combined = append(combined, a.defaults...)
	combined = append(combined, opts...)
	options := ApplyOptions(combined...)

	go a.runTurn(ctx, messages, eventCh, options)

	return eventCh
}

func (a *Agent) runTurn(ctx context.Context, messages []ai.Message, eventCh chan<- event.Event, options *Options) {
	defer close(eventCh)

	event.Emit(eventCh, event.Event{Type: event.RunStart})

	if options.State != nil {
		event.Emit(eventCh, event.Event{Type: event.StateSnapshot, State: options.State})
	}

	history, err := planTurn(messages)
	if err != nil {
		event.Emit(eventCh, event.Event{Type: event.RunError, Error: err})
		return
	}

	if ctx.Err() != nil {
		a.emitEnd(eventCh, nil, TerminationCancelled, nil)
		return
	}

	response, err := a.streamTurn(ctx, history, options.ChatOptions, eventCh)
	if err != nil {
		event.Emit(eventCh, event.Event{Type: event.RunError, Error: err})
		return
	}

	reason := TerminationComplete
	var pending []ai.ToolCall
	switch {
	case len(response.ToolCalls) > 0:
		reason = TerminationToolCalls
		pending = response.ToolCalls
	case maxTokensReasons[response.FinishReason]:
		reason = TerminationMaxTokens
	}

	a.emitEnd(eventCh, response, reason, pending)
}

// streamTurn executes one chat call and translates its stream into
// lifecycle events. Text is framed by MessageStart/MessageEnd around the
// deltas; tool call chunks are framed the same way per call. An open text
// message is closed before the first tool call starts, and any call the
// provider never terminated is closed when the stream ends.
func (a *Agent) streamTurn(ctx context.Context, messages []ai.Message, chatOpts []ai.Option, eventCh chan<- event.Event) (*ai.Response, error) {
	streamCh, err := a.provider.ChatStream(ctx, messages, chatOpts...)
	if err != nil {
		return nil, err
	}

	var response *ai.Response
	var messageID string
	messageOpen := false

	// Open tool calls by chunk index, in arrival order.
	openCalls := make(map[int]string)
	var openOrder []int

	closeMessage := func() {
		if messageOpen {
			event.Emit(eventCh, event.Event{Type: event.MessageEnd, MessageID: messageID})
			messageOpen = false
		}
	}

	for ev := range streamCh {
		switch {
		case ev.Err != nil:
			return nil, ev.Err

		case ev.Delta != "":
			if !messageOpen {
				messageID = ai.GenerateMessageID()
				messageOpen = true
				event.Emit(eventCh, event.Event{Type: event.MessageStart, MessageID: messageID})
			}
			event.Emit(eventCh, event.Event{
				Type:      event.MessageDelta,
				MessageID: messageID,
				Delta:     ev.Delta,
			})

		case ev.ToolCall != nil:
			chunk := ev.ToolCall
			switch {
			case chunk.ID != "":
				closeMessage()
				openCalls[chunk.Index] = chunk.ID
				openOrder = append(openOrder, chunk.Index)
				event.Emit(eventCh, event.Event{
					Type:     event.ToolCallStart,
					ToolCall: &ai.ToolCall{ID: chunk.ID, Name: chunk.Name},
				})
				if chunk.Arguments != "" {
					event.Emit(eventCh, event.Event{
						Type:     event.ToolCallArgs,
						ToolCall: &ai.ToolCall{ID: chunk.ID},
						Delta:    chunk.Arguments,
					})
				}

			case chunk.Done:
				if id, ok := openCalls[chunk.Index]; ok {
					event.Emit(eventCh, event.Event{
						Type:     event.ToolCallEnd,
						ToolCall: &ai.ToolCall{ID: id},
					})
					delete(openCalls, chunk.Index)
				}

			case chunk.Arguments != "":
				// Fragments for a call we never saw open are dropped.
				if id, ok := openCalls[chunk.Index]; ok {
					event.Emit(eventCh, event.Event{
						Type:     event.ToolCallArgs,
						ToolCall: &ai.ToolCall{ID: id},
						Delta:    chunk.Arguments,
					})
				}
			}

		case ev.Done:
			response = ev.Response
		}
	}

	closeMessage()

	// Close calls the provider never terminated (OpenAI has no per-call
	// stop marker).
	for _, index := range openOrder {
		if id, ok := openCalls[index]; ok {
			event.Emit(eventCh, event.Event{
				Type:     event.ToolCallEnd,
				ToolCall: &ai.ToolCall{ID: id},
			})
			delete(openCalls, index)
		}
	}

	if response == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNoResponse
	}

	return response, nil
}

func (a *Agent) emitEnd(ch chan<- event.Event, response *ai.Response, reason TerminationReason, pending []ai.ToolCall) {
	event.Emit(ch, event.Event{
		Type:             event.RunEnd,
		Response:         response,
		Message:          string(reason),
		PendingToolCalls: pending,
	})
}
