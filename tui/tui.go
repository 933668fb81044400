// Package tui is an interactive terminal chat for the health assistant.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Responder runs one conversation turn and returns the assistant's reply.
type Responder interface {
	Respond(ctx context.Context, threadID, message string) (string, error)
}

var (
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type replyMsg struct {
	text string
	err  error
}

type model struct {
	ctx       context.Context
	responder Responder
	threadID  string
	renderer  *glamour.TermRenderer

	viewport viewport.Model
	textarea textarea.Model

	transcript []string
	waiting    bool
	ready      bool
	err        error
}

func newModel(ctx context.Context, responder Responder) model {
	ta := textarea.New()
	ta.Placeholder = "Ask a health question..."
	ta.Prompt = "┃ "
	ta.CharLimit = 2000
	ta.SetHeight(2)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	return model{
		ctx:       ctx,
		responder: responder,
		threadID:  uuid.NewString(),
		textarea:  ta,
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		taCmd tea.Cmd
		vpCmd tea.Cmd
	)
	m.textarea, taCmd = m.textarea.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 1
		footerHeight := m.textarea.Height() + 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
		m.textarea.SetWidth(msg.Width)

		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(msg.Width-2),
		)
		if err == nil {
			m.renderer = renderer
		}
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.textarea.Value())
			if text == "" || m.waiting {
				break
			}
			m.textarea.Reset()
			m.waiting = true
			m.err = nil
			m.transcript = append(m.transcript, userStyle.Render("You: ")+text)
			m.refresh()
			return m, tea.Batch(taCmd, vpCmd, m.ask(text))
		}

	case replyMsg:
		m.waiting = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.transcript = append(m.transcript,
				assistantStyle.Render("Assistant:")+"\n"+m.renderMarkdown(msg.text))
		}
		m.refresh()
	}

	return m, tea.Batch(taCmd, vpCmd)
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}
	var status string
	switch {
	case m.err != nil:
		status = errStyle.Render(fmt.Sprintf("error: %v", m.err))
	case m.waiting:
		status = helpStyle.Render("thinking...")
	default:
		status = helpStyle.Render("enter to send, esc to quit")
	}
	return fmt.Sprintf("%s\n%s\n%s\n%s",
		assistantStyle.Render("Health Assistant"),
		m.viewport.View(),
		m.textarea.View(),
		status,
	)
}

func (m *model) refresh() {
	m.viewport.SetContent(strings.Join(m.transcript, "\n\n"))
	m.viewport.GotoBottom()
}

func (m model) ask(text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.responder.Respond(m.ctx, m.threadID, text)
		return replyMsg{text: reply, err: err}
	}
}

func (m model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// Run starts the chat UI and blocks until the user quits.
func Run(ctx context.Context, responder Responder) error {
	p := tea.NewProgram(newModel(ctx, responder), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
