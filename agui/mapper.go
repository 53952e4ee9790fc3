package agui

import (
	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	ai "github.com/callaby/bowline"
	"github.com/callaby/bowline/event"
)

// Mapper converts bowline run events to AG-UI events. Each run event maps
// to at most one AG-UI event.
//
// The Mapper tracks run nesting so that composed agents present as a
// single AG-UI run: only the outermost RunStart/RunEnd pair produces
// lifecycle events. RunError always passes through.
//
// Create a new Mapper for each run using NewMapper. The Mapper is not
// safe for concurrent use - each run should have its own Mapper.
type Mapper struct {
	threadID     string
	runID        string
	depth        int
	initialState any
	stateEmitted bool
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithInitialState sets a state snapshot that MapStream emits once,
// immediately after the outermost RUN_STARTED event.
func WithInitialState(state any) MapperOption {
	return func(m *Mapper) {
		m.initialState = state
	}
}

// NewMapper creates a new Mapper for a single run.
// The threadID and runID are used in lifecycle events (RUN_STARTED,
// RUN_FINISHED); missing IDs are generated.
func NewMapper(threadID, runID string, opts ...MapperOption) *Mapper {
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	if runID == "" {
		runID = events.GenerateRunID()
	}
	m := &Mapper{
		threadID: threadID,
		runID:    runID,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ThreadID returns the thread ID for this mapper.
func (m *Mapper) ThreadID() string {
	return m.threadID
}

// RunID returns the run ID for this mapper.
func (m *Mapper) RunID() string {
	return m.runID
}

// RunDepth returns the current run nesting depth.
func (m *Mapper) RunDepth() int {
	return m.depth
}

// RunStarted returns a RUN_STARTED event.
func (m *Mapper) RunStarted() events.Event {
	return events.NewRunStartedEvent(m.threadID, m.runID)
}

// RunFinished returns a RUN_FINISHED event.
func (m *Mapper) RunFinished() events.Event {
	return events.NewRunFinishedEvent(m.threadID, m.runID)
}

// RunError returns a RUN_ERROR event.
func (m *Mapper) RunError(err error) events.Event {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return events.NewRunErrorEvent(msg)
}

// StateSnapshot returns a STATE_SNAPSHOT event carrying the given state.
func (m *Mapper) StateSnapshot(state any) events.Event {
	return events.NewStateSnapshotEvent(state)
}

// MessagesSnapshot returns a MESSAGES_SNAPSHOT event carrying the given
// conversation history.
func (m *Mapper) MessagesSnapshot(msgs []ai.Message) events.Event {
	return events.NewMessagesSnapshotEvent(FromBowlineMessages(msgs))
}

// MapEvent converts a run event to an AG-UI event.
// Returns nil for events that have no AG-UI equivalent, and for nested
// RunStart/RunEnd events.
func (m *Mapper) MapEvent(e event.Event) events.Event {
	switch e.Type {
	// Run lifecycle
	case event.RunStart:
		m.depth++
		if m.depth > 1 {
			return nil
		}
		return m.RunStarted()
	case event.RunEnd:
		if m.depth > 1 {
			m.depth--
			return nil
		}
		if m.depth > 0 {
			m.depth--
		}
		return m.RunFinished()
	case event.RunError:
		return m.RunError(e.Error)

	// Message lifecycle
	case event.MessageStart:
		return events.NewTextMessageStartEvent(
			e.MessageID,
			events.WithRole(RoleAssistant),
		)
	case event.MessageDelta:
		return events.NewTextMessageContentEvent(e.MessageID, e.Delta)
	case event.MessageEnd:
		return events.NewTextMessageEndEvent(e.MessageID)

	// Tool call lifecycle
	case event.ToolCallStart:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallStartEvent(e.ToolCall.ID, e.ToolCall.Name)
	case event.ToolCallArgs:
		if e.ToolCall == nil {
			return nil
		}
		args := e.Delta
		if args == "" {
			args = e.ToolCall.Arguments
		}
		return events.NewToolCallArgsEvent(e.ToolCall.ID, args)
	case event.ToolCallEnd:
		if e.ToolCall == nil {
			return nil
		}
		return events.NewToolCallEndEvent(e.ToolCall.ID)
	case event.ToolCallResult:
		if e.ToolCall == nil || e.ToolResult == nil {
			return nil
		}
		messageID := e.MessageID
		if messageID == "" {
			messageID = events.GenerateMessageID()
		}
		return events.NewToolCallResultEvent(messageID, e.ToolCall.ID, e.ToolResult.Content)

	// State
	case event.StateSnapshot:
		return m.StateSnapshot(e.State)

	default:
		return nil
	}
}

// MapStream converts a channel of run events to a channel of AG-UI
// events. Unmappable events are filtered out. The output channel is
// closed when the input channel closes.
//
// If the mapper was created with WithInitialState, a STATE_SNAPSHOT is
// emitted immediately after the outermost RUN_STARTED.
func (m *Mapper) MapStream(input <-chan event.Event) <-chan events.Event {
	output := make(chan events.Event, 100)

	go func() {
		defer close(output)
		for e := range input {
			mapped := m.MapEvent(e)
			if mapped == nil {
				continue
			}
			output <- mapped

			if m.initialState != nil && !m.stateEmitted && mapped.Type() == events.EventTypeRunStarted {
				m.stateEmitted = true
				output <- m.StateSnapshot(m.initialState)
			}
		}
	}()

	return output
}
