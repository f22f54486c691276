// Package tui is an interactive terminal chat over a session's
// documents, rendering the answer token by token as it streams.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mhaddaou/docchat/internal/core/domain"
	"github.com/mhaddaou/docchat/internal/core/ports/driving"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	inputBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	transcriptBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Messages delivered by the background commands.
type (
	historyMsg     []domain.Message
	streamStartMsg struct{ stream *domain.AnswerStream }
	tokenMsg       struct {
		stream *domain.AnswerStream
		token  string
	}
	streamEndMsg struct{ err error }
	errMsg       struct{ err error }
)

// Model is the Bubble Tea model for one chat session.
type Model struct {
	chat     driving.ChatService
	sessions driving.SessionService
	ownerID  string
	session  string

	input    textinput.Model
	viewport viewport.Model

	transcript string
	stream     *domain.AnswerStream
	status     string
	ready      bool
}

// New creates a model bound to one session.
func New(chat driving.ChatService, sessions driving.SessionService, ownerID, sessionID string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about your documents"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		chat:     chat,
		sessions: sessions,
		ownerID:  ownerID,
		session:  sessionID,
		input:    ti,
		viewport: vp,
		status:   "Type a question and press Enter.",
	}
}

// Init loads the existing transcript and starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistory())
}

func (m Model) loadHistory() tea.Cmd {
	return func() tea.Msg {
		messages, err := m.sessions.Messages(context.Background(), m.ownerID, m.session)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(messages)
	}
}

// ask starts one chat turn in the background.
func (m Model) ask(query string) tea.Cmd {
	return func() tea.Msg {
		stream, err := m.chat.Answer(context.Background(), m.ownerID, m.session, query)
		if err != nil {
			return errMsg{err}
		}
		return streamStartMsg{stream}
	}
}

// waitForToken reads the next fragment off the stream. Reading happens
// in a command, one fragment per Update cycle, so rendering keeps pace
// with generation.
func waitForToken(stream *domain.AnswerStream) tea.Cmd {
	return func() tea.Msg {
		token, ok := <-stream.Tokens()
		if !ok {
			return streamEndMsg{err: stream.Err()}
		}
		return tokenMsg{stream: stream, token: token}
	}
}

// Update handles key, window and stream events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptBox.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input frame, spacer
		m.viewport.Width = msg.Width
		m.viewport.Height = maxInt(3, msg.Height-reserved-th)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if msg.Type == tea.KeyEnter && m.stream == nil {
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.input.Reset()
			m.appendLine(questionStyle.Render("You: ") + query)
			m.transcript += "AI: "
			m.status = "Thinking..."
			m.refresh()
			return m, m.ask(query)
		}

	case historyMsg:
		for _, message := range msg {
			switch message.Role {
			case domain.RoleHuman:
				m.appendLine(questionStyle.Render("You: ") + message.Content)
			case domain.RoleAI:
				m.appendLine("AI: " + message.Content)
			}
		}
		m.refresh()
		return m, nil

	case streamStartMsg:
		m.stream = msg.stream
		return m, waitForToken(msg.stream)

	case tokenMsg:
		m.transcript += msg.token
		m.refresh()
		return m, waitForToken(msg.stream)

	case streamEndMsg:
		m.stream = nil
		m.transcript += "\n\n"
		if msg.err != nil {
			m.appendLine(errorStyle.Render("Error: " + msg.err.Error()))
			m.status = "The last answer failed and was not saved."
		} else {
			m.status = "Type a question and press Enter."
		}
		m.refresh()
		return m, nil

	case errMsg:
		m.stream = nil
		m.appendLine(errorStyle.Render("Error: " + msg.err.Error()))
		m.status = "Type a question and press Enter."
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the transcript, input box and status line.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("docchat  ") + statusStyle.Render("session "+m.session)
	return header + "\n" +
		transcriptBox.Render(m.viewport.View()) + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		statusStyle.Render(m.status)
}

func (m *Model) appendLine(line string) {
	m.transcript += line + "\n\n"
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.transcript)
	m.viewport.GotoBottom()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
