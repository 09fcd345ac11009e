package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Fixed heights of the non-viewport sections.
const (
	headerHeight    = 8 // ASCII art plus the spacer line below it
	tipsHeight      = 1
	statusBarHeight = 1
	maxInputLines   = 6
)

// View draws the whole screen. Bubble Tea calls it on every redraw.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.buildHeader()
	tips := m.buildTips()
	loadingIndicator := m.buildLoadingIndicator()
	inputBox := m.buildInputBox()
	bottomBar := m.buildBottomBar()

	viewportSection := m.viewport.View()

	if m.agentBusy {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			tips,
			"",
			viewportSection,
			loadingIndicator,
			inputBox,
			bottomBar,
		)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		tips,
		"",
		viewportSection,
		inputBox,
		bottomBar,
	)
}

// buildHeader renders the daykeep ASCII art header
func (m *model) buildHeader() string {
	return headerStyle.Render(`
	██████╗  █████╗ ██╗   ██╗██╗  ██╗███████╗███████╗██████╗
	██╔══██╗██╔══██╗╚██╗ ██╔╝██║ ██╔╝██╔════╝██╔════╝██╔══██╗
	██║  ██║███████║ ╚████╔╝ █████╔╝ █████╗  █████╗  ██████╔╝
	██║  ██║██╔══██║  ╚██╔╝  ██╔═██╗ ██╔══╝  ██╔══╝  ██╔═══╝
	██████╔╝██║  ██║   ██║   ██║  ██╗███████╗███████╗██║
	╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚══════╝╚══════╝╚═╝`)
}

// buildTips renders the usage tips line
func (m *model) buildTips() string {
	return tipsStyle.Render(fmt.Sprintf(`  Tips: Enter to send • Alt+Enter for new line • %s to switch agents • Ctrl+Y to copy last reply • Ctrl+C to exit`, m.commandList()))
}

// buildLoadingIndicator renders the spinner while the agent is busy
func (m *model) buildLoadingIndicator() string {
	if !m.agentBusy {
		return ""
	}
	loadingMsg := fmt.Sprintf("%s %s", m.spinner.View(), m.currentLoadingMessage)
	loadingStyle := lipgloss.NewStyle().
		Foreground(skyBlue).
		Width(m.width-4).
		Padding(0, 2)
	return loadingStyle.Render(loadingMsg)
}

// buildInputBox wraps the textarea in its rounded border
func (m *model) buildInputBox() string {
	return inputBoxStyle.Width(m.width - 4).Render(m.textarea.View())
}

// buildBottomBar renders the bottom status bar with the active agent
// and token usage
func (m *model) buildBottomBar() string {
	bottomLeft := fmt.Sprintf("daykeep · %s", m.active)
	bottomRight := m.buildTokenDisplay()

	padding := m.width - len(bottomLeft) - len(bottomRight) - 4
	if padding < 2 {
		padding = 2
	}

	return statusBarStyle.Width(m.width).Render(
		bottomLeft + strings.Repeat(" ", padding) + bottomRight,
	)
}

// buildTokenDisplay summarizes context pressure and cumulative usage
func (m *model) buildTokenDisplay() string {
	if m.totalTokens == 0 {
		return "Ready"
	}

	used := formatTokenCount(m.currentContextTokens)
	if limit := m.maxContextTokens; limit > 0 {
		used = fmt.Sprintf("%s/%s", used, formatTokenCount(limit))
		if float64(m.currentContextTokens) >= 0.8*float64(limit) {
			used = errorStyle.Render(used)
		}
	}

	in := formatTokenCount(m.totalPromptTokens)
	out := formatTokenCount(m.totalCompletionTokens)
	tot := formatTokenCount(m.totalTokens)
	return fmt.Sprintf("Context: %s | Input: %s | Output: %s | Total: %s", used, in, out, tot)
}
