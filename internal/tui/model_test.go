package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policychat/internal/retrieval"
)

func testAsk(answer string) AskFunc {
	return func(ctx context.Context, question string) (string, []retrieval.Match, error) {
		return answer, []retrieval.Match{
			{Document: retrieval.Document{ID: 1, Title: "Leave"}, Score: 0.8},
		}, nil
	}
}

func TestModelAnswerFlow(t *testing.T) {
	m := NewModel(testAsk("30 days"))

	// Simulate the terminal being sized.
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	assert.True(t, m.ready)

	// Deliver an answer.
	updated, _ = m.Update(answerMsg{exchange: exchange{
		question: "how many leave days",
		answer:   "30 days",
		matches:  []retrieval.Match{{Document: retrieval.Document{Title: "Leave"}, Score: 0.8}},
	}})
	m = updated.(Model)

	require.Len(t, m.history, 1)
	assert.False(t, m.waiting)

	transcript := m.renderTranscript()
	assert.Contains(t, transcript, "how many leave days")
	assert.Contains(t, transcript, "30 days")
	assert.Contains(t, transcript, "Leave")
}

func TestModelAnswerError(t *testing.T) {
	m := NewModel(testAsk(""))
	m.waiting = true

	updated, _ := m.Update(answerMsg{err: assert.AnError})
	m = updated.(Model)

	assert.False(t, m.waiting)
	assert.Contains(t, m.status, "Error:")
	assert.Empty(t, m.history)
}

func TestRenderTranscriptEmpty(t *testing.T) {
	m := NewModel(testAsk(""))
	assert.Equal(t, "No questions yet.", m.renderTranscript())
}
