// Package tui implements a small terminal chat client over the local ask
// pipeline.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"policychat/internal/retrieval"
)

// AskFunc answers one question, returning the generated response and the
// policy documents it was grounded in.
type AskFunc func(ctx context.Context, question string) (string, []retrieval.Match, error)

// exchange is one question/answer pair in the transcript.
type exchange struct {
	question string
	answer   string
	matches  []retrieval.Match
}

// answerMsg delivers an async ask result back to the update loop.
type answerMsg struct {
	exchange exchange
	err      error
}

// Model is the Bubble Tea model for the chat client.
type Model struct {
	ask      AskFunc
	input    textinput.Model
	viewport viewport.Model
	history  []exchange
	status   string
	waiting  bool
	ready    bool
}

// NewModel creates the chat model.
func NewModel(ask AskFunc) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a policy and press Enter"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		ask:      ask,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready.",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key and window events
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, frameHeight := transcriptStyle.GetFrameSize()
		reserved := 4 + frameHeight // header, input, status, spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.viewport.SetContent(m.renderTranscript())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.waiting {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.waiting = true
			m.status = "Thinking..."
			return m, m.askCmd(question)
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.history = append(m.history, msg.exchange)
			m.status = fmt.Sprintf("Answered with %d supporting documents.", len(msg.exchange.matches))
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	return headerStyle.Render("Policy Chat") + "\n" +
		transcriptStyle.Render(m.viewport.View()) + "\n" +
		inputStyle.Render(m.input.View()) + "\n" +
		statusStyle.Render(m.status)
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		answer, matches, err := m.ask(ctx, question)
		if err != nil {
			return answerMsg{err: err}
		}
		return answerMsg{exchange: exchange{question: question, answer: answer, matches: matches}}
	}
}

func (m Model) renderTranscript() string {
	if len(m.history) == 0 {
		return "No questions yet."
	}

	var b strings.Builder
	for i, ex := range m.history {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(questionStyle.Render("You: " + ex.question))
		b.WriteString("\n")
		b.WriteString(answerStyle.Render(ex.answer))
		if len(ex.matches) > 0 {
			b.WriteString("\n")
			for _, match := range ex.matches {
				b.WriteString(sourceStyle.Render(
					fmt.Sprintf("  · %s (%.2f)", match.Title, match.Score)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
