// Package tui implements the interactive chat interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/complia-labs/complia-cli/internal/core/domain"
	"github.com/complia-labs/complia-cli/internal/core/ports/driven"
	"github.com/complia-labs/complia-cli/internal/core/ports/driving"
	"github.com/complia-labs/complia-cli/internal/logger"
)

// Ports groups the services the chat screen drives. Transcript is
// optional; without it exchanges are kept only for the session.
type Ports struct {
	Assistant  driving.Assistant
	Transcript driven.TranscriptStore
}

// exchange is one completed question and answer pair.
type exchange struct {
	question string
	answer   domain.Answer
}

// answerMsg carries the result of an asynchronous Answer call.
type answerMsg struct {
	question string
	answer   domain.Answer
	err      error
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	ports     *Ports
	ctx       context.Context
	sessionID string

	input    textinput.Model
	viewport viewport.Model

	exchanges []exchange
	status    string
	waiting   bool
	ready     bool
}

// New creates the chat model.
func New(ports *Ports) (Model, error) {
	if ports == nil || ports.Assistant == nil {
		return Model{}, errors.New("assistant service not configured")
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about policies or transactions"
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		ports:     ports,
		ctx:       context.Background(),
		sessionID: uuid.NewString(),
		input:     ti,
		viewport:  viewport.New(0, 0),
		status:    "Ready. Type a question and press Enter.",
	}, nil
}

// WithContext sets the context used for answer calls.
func (m Model) WithContext(ctx context.Context) Model {
	if ctx != nil {
		m.ctx = ctx
	}
	return m
}

// SessionID returns the transcript session this chat writes to.
func (m Model) SessionID() string { return m.sessionID }

// Init starts the text input cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and answer events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ch := chatBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 2 + ih + 1 // header, input frame, status
		vh := msg.Height - reserved - ch
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = maxInt(20, msg.Width-2)
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderExchanges())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "enter":
			if m.waiting {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.waiting = true
			m.status = "Thinking..."
			m.input.SetValue("")
			return m, m.ask(q)
		case "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "down":
			m.viewport.ScrollDown(1)
			return m, nil
		}

	case answerMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.exchanges = append(m.exchanges, exchange{question: msg.question, answer: msg.answer})
		m.status = statusFor(msg.answer)
		m.viewport.SetContent(m.renderExchanges())
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// ask answers the question off the event loop. The exchange is written
// to the transcript only after the answer succeeded; a failed question
// leaves no record.
func (m Model) ask(question string) tea.Cmd {
	ports, ctx, sessionID := m.ports, m.ctx, m.sessionID
	return func() tea.Msg {
		answer, err := ports.Assistant.Answer(ctx, question)
		if err != nil {
			return answerMsg{question: question, err: err}
		}

		if ports.Transcript != nil {
			saveExchange(ctx, ports.Transcript, sessionID, question, answer.Text)
		}
		return answerMsg{question: question, answer: answer}
	}
}

func saveExchange(ctx context.Context, store driven.TranscriptStore, sessionID, question, answer string) {
	msgs := []domain.Message{
		{SessionID: sessionID, Role: domain.RoleUser, Content: question},
		{SessionID: sessionID, Role: domain.RoleAssistant, Content: answer},
	}
	for _, msg := range msgs {
		if err := store.SaveMessage(ctx, msg); err != nil {
			logger.Warn("Transcript save failed: %v", err)
			return
		}
	}
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Complia")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Model) renderExchanges() string {
	if len(m.exchanges) == 0 {
		return "No messages yet."
	}
	parts := make([]string, 0, len(m.exchanges))
	for _, e := range m.exchanges {
		parts = append(parts,
			userStyle.Render("You: ")+e.question+"\n"+
				assistantStyle.Render("Complia: ")+e.answer.Text)
	}
	return strings.Join(parts, "\n\n")
}

func statusFor(a domain.Answer) string {
	if a.Intent == domain.IntentCompliance {
		return fmt.Sprintf("Answered from %d document chunks.", a.Retrieved)
	}
	return "Answered without document lookup."
}

var (
	headerStyle    = lipgloss.NewStyle().Bold(true)
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	assistantStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
