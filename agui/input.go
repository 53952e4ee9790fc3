package agui

import (
	"encoding/json"
	"errors"

	"github.com/ag-ui-protocol/ag-ui/sdks/community/go/pkg/core/events"
	ai "github.com/callaby/bowline"
)

// RunAgentInput represents the AG-UI protocol request for running an agent.
// Field names follow the protocol's JSON casing and the struct is
// transport-agnostic.
type RunAgentInput struct {
	ThreadID       string           `json:"threadId"`
	RunID          string           `json:"runId"`
	Messages       []events.Message `json:"messages"`
	Tools          []any            `json:"tools,omitempty"`          // Frontend-provided tools
	Context        []any            `json:"context,omitempty"`        // Context items
	State          any              `json:"state,omitempty"`          // Frontend state
	ForwardedProps any              `json:"forwardedProps,omitempty"` // Forwarded props
}

// PreparedInput contains validated and converted input ready for a run.
type PreparedInput struct {
	ThreadID  string
	RunID     string
	Messages  []ai.Message
	Tools     []Tool   // Parsed frontend tools
	ToolNames []string // Tool names for cleanup tracking
	State     any      // Raw state from frontend
}

// ErrNoMessages is returned when the input contains no messages.
var ErrNoMessages = errors.New("no messages provided")

// Prepare validates the input and converts it to bowline types.
// Returns ErrNoMessages if Messages is empty.
// Returns an error if tool parsing fails.
func (r *RunAgentInput) Prepare() (*PreparedInput, error) {
	messages := ToBowlineMessages(r.Messages)
	if len(messages) == 0 {
		return nil, ErrNoMessages
	}

	result := &PreparedInput{
		ThreadID: r.ThreadID,
		RunID:    r.RunID,
		Messages: messages,
		State:    r.State,
	}

	// Parse frontend tools if provided
	if len(r.Tools) > 0 {
		tools, err := ParseTools(r.Tools)
		if err != nil {
			return nil, err
		}
		result.Tools = tools
		result.ToolNames = ToolNames(tools)
	}

	return result, nil
}

// BowlineTools converts the parsed frontend tools to bowline tools.
// Returns nil if no tools were parsed.
func (p *PreparedInput) BowlineTools() []ai.Tool {
	return ToBowlineTools(p.Tools)
}

// DecodeState decodes the raw state into a typed struct.
// Returns the zero value of T if State is nil.
func DecodeState[T any](input *PreparedInput) (T, error) {
	var result T
	if input.State == nil {
		return result, nil
	}

	// Re-marshal and unmarshal to get proper typing
	data, err := json.Marshal(input.State)
	if err != nil {
		return result, err
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return result, err
	}

	return result, nil
}

// MustDecodeState is like DecodeState but panics on error.
func MustDecodeState[T any](input *PreparedInput) T {
	result, err := DecodeState[T](input)
	if err != nil {
		panic("agui: failed to decode state: " + err.Error())
	}
	return result
}
