package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daykeep/daykeep/pkg/types"
)

// agentEventMsg wraps an agent event with the name of the agent that
// produced it.
type agentEventMsg struct {
	agent string
	event *types.AgentEvent
}

// Update handles all state updates for the TUI model.
// This is the main event loop handler for Bubble Tea.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd      tea.Cmd
		spinnerCmd tea.Cmd
	)

	m.spinner, spinnerCmd = m.spinner.Update(msg)
	m.textarea, tiCmd = m.textarea.Update(msg)
	m.updateTextAreaHeight()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlY:
			m.copyLastReply()
			return m, tea.Batch(tiCmd, spinnerCmd)
		case tea.KeyEnter:
			if msg.Alt {
				// Alt+Enter inserts a newline, handled by the textarea
				return m, tea.Batch(tiCmd, spinnerCmd)
			}
			return m.handleSubmit(tiCmd, spinnerCmd)
		}

	case agentEventMsg:
		if msg.agent == m.active {
			m.handleAgentEvent(msg.event)
		}
		return m, spinnerCmd
	}

	return m, tea.Batch(tiCmd, spinnerCmd)
}

// handleSubmit sends the typed input to the active agent or runs a
// slash command.
func (m *model) handleSubmit(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, tea.Batch(cmds...)
	}

	if strings.HasPrefix(input, "/") {
		m.textarea.Reset()
		return m.handleSlashCommand(input, cmds...)
	}

	if m.agentBusy {
		// One turn at a time
		return m, tea.Batch(cmds...)
	}

	m.textarea.Reset()
	m.appendUserEntry(input)

	m.activeChannels().Input <- types.NewUserInput(input)
	return m, tea.Batch(cmds...)
}

// handleSlashCommand handles /quit and agent switching commands.
func (m *model) handleSlashCommand(input string, cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	name := strings.TrimPrefix(input, "/")
	if name == "quit" || name == "exit" {
		return m, tea.Quit
	}

	target := m.resolveAgent(name)
	if target == "" {
		m.appendSystemEntry(fmt.Sprintf("Unknown command %s. Available: %s, /quit", input, m.commandList()))
		return m, tea.Batch(cmds...)
	}

	if target != m.active {
		m.active = target
		m.appendSystemEntry(fmt.Sprintf("Switched to the %s agent.", target))
	}
	return m, tea.Batch(cmds...)
}

// resolveAgent maps a command name to a registered agent, accepting
// prefixes like /review for the reviewer agent.
func (m *model) resolveAgent(name string) string {
	if _, ok := m.agents[name]; ok {
		return name
	}
	for _, candidate := range m.order {
		if strings.HasPrefix(candidate, name) {
			return candidate
		}
	}
	return ""
}

func (m *model) commandList() string {
	cmds := make([]string, len(m.order))
	for i, name := range m.order {
		cmds[i] = "/" + name
	}
	return strings.Join(cmds, ", ")
}

// copyLastReply puts the most recent assistant message on the system
// clipboard.
func (m *model) copyLastReply() {
	if m.lastReply == "" {
		m.appendSystemEntry("Nothing to copy yet.")
		return
	}
	if err := clipboard.WriteAll(m.lastReply); err != nil {
		m.appendSystemEntry(fmt.Sprintf("Could not copy to clipboard: %v", err))
		return
	}
	m.appendSystemEntry("Copied the last reply to the clipboard.")
}

// handleWindowResize recalculates the layout for a new terminal size.
func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	if !m.ready {
		m.viewport = newViewport(msg.Width, m.viewportHeight())
		m.ready = true
	}
	m.textarea.SetWidth(msg.Width - 6)
	m.recalculateLayout()

	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
	return m, nil
}

// appendUserEntry writes the user's turn into the transcript.
func (m *model) appendUserEntry(input string) {
	m.content.WriteString(userStyle.Render(fmt.Sprintf("You (%s)", m.active)))
	m.content.WriteString("\n")
	m.content.WriteString(formatEntry("", input, toolResultStyle, m.width))
	m.content.WriteString("\n\n")
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
}

// appendSystemEntry writes an executor notice into the transcript.
func (m *model) appendSystemEntry(text string) {
	m.content.WriteString(tipsStyle.Render(text))
	m.content.WriteString("\n\n")
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
}
