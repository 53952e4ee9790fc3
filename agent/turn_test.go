package agent

import (
	"testing"

	ai "github.com/callaby/bowline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanTurn(t *testing.T) {
	user := ai.Message{Role: ai.RoleUser, Content: "Weather in Tokyo?"}
	assistant := ai.Message{
		Role:      ai.RoleAssistant,
		ToolCalls: []ai.ToolCall{{ID: "call_1", Name: "get_weather", Arguments: `{"location":"Tokyo"}`}},
	}
	result := ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_1", Content: `{"temp": 21}`})

	t.Run("empty history", func(t *testing.T) {
		_, err := planTurn(nil)
		assert.ErrorIs(t, err, ai.ErrEmptyInput)
	})

	t.Run("fresh turn passes through", func(t *testing.T) {
		history, err := planTurn([]ai.Message{user})
		require.NoError(t, err)
		assert.Equal(t, []ai.Message{user}, history)
	})

	t.Run("resume keeps existing assistant turn", func(t *testing.T) {
		history, err := planTurn([]ai.Message{user, assistant, result})
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, assistant, history[1])
		assert.Equal(t, ai.RoleTool, history[2].Role)
	})

	t.Run("resume merges trailing tool messages", func(t *testing.T) {
		second := ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_2", Content: "ok"})
		history, err := planTurn([]ai.Message{user, assistant, result, second})
		require.NoError(t, err)
		require.Len(t, history, 3)
		require.Len(t, history[2].ToolResults, 2)
		assert.Equal(t, "call_1", history[2].ToolResults[0].ToolCallID)
		assert.Equal(t, "call_2", history[2].ToolResults[1].ToolCallID)
	})

	t.Run("resume synthesizes missing assistant turn", func(t *testing.T) {
		history, err := planTurn([]ai.Message{user, result})
		require.NoError(t, err)
		require.Len(t, history, 3)
		assert.Equal(t, ai.RoleAssistant, history[1].Role)
		require.Len(t, history[1].ToolCalls, 1)
		assert.Equal(t, "call_1", history[1].ToolCalls[0].ID)
		assert.Empty(t, history[1].ToolCalls[0].Name)
		assert.Equal(t, "{}", history[1].ToolCalls[0].Arguments)
	})

	t.Run("assistant without tool calls does not count", func(t *testing.T) {
		plain := ai.Message{Role: ai.RoleAssistant, Content: "Sure."}
		history, err := planTurn([]ai.Message{user, plain, result})
		require.NoError(t, err)
		require.Len(t, history, 4)
		assert.Equal(t, plain, history[1])
		assert.Equal(t, ai.RoleAssistant, history[2].Role)
		assert.NotEmpty(t, history[2].ToolCalls)
	})

	t.Run("empty trailing tool messages are dropped", func(t *testing.T) {
		empty := ai.Message{Role: ai.RoleTool}
		history, err := planTurn([]ai.Message{user, empty})
		require.NoError(t, err)
		assert.Equal(t, []ai.Message{user}, history)
	})

	t.Run("only empty tool messages", func(t *testing.T) {
		empty := ai.Message{Role: ai.RoleTool}
		_, err := planTurn([]ai.Message{empty})
		assert.ErrorIs(t, err, ai.ErrEmptyInput)
	})

	t.Run("only tool results synthesizes from nothing", func(t *testing.T) {
		history, err := planTurn([]ai.Message{result})
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, ai.RoleAssistant, history[0].Role)
		assert.Equal(t, ai.RoleTool, history[1].Role)
	})

	t.Run("mid-history tool results do not trigger resume", func(t *testing.T) {
		followUp := ai.Message{Role: ai.RoleUser, Content: "And tomorrow?"}
		messages := []ai.Message{user, assistant, result, followUp}
		history, err := planTurn(messages)
		require.NoError(t, err)
		assert.Equal(t, messages, history)
	})
}
