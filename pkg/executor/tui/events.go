package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/daykeep/daykeep/pkg/types"
)

// refreshViewport re-renders the transcript plus an optional in-flight
// streaming tail and pins the view to the bottom.
func (m *model) refreshViewport(tail string) {
	m.viewport.SetContent(m.content.String() + tail)
	m.viewport.GotoBottom()
}

// handleAgentEvent processes events from the active agent's event stream
// and updates the transcript accordingly.
func (m *model) handleAgentEvent(event *types.AgentEvent) {
	switch event.Type {
	case types.EventTypeThinkingStart:
		m.thinkingBuffer.Reset()

	case types.EventTypeThinkingContent:
		m.handleThinkingContent(event)
		return // streaming tail must survive until thinking_end

	case types.EventTypeThinkingEnd:
		m.handleThinkingEnd()

	case types.EventTypeToolCallStart:
		m.handleToolCallStart(event)

	case types.EventTypeToolCall:
		m.handleToolCall(event)

	case types.EventTypeToolResult:
		m.handleToolResult(event)

	case types.EventTypeToolResultError:
		m.handleToolResultError(event)

	case types.EventTypeMessageStart:
		m.messageBuffer.Reset()

	case types.EventTypeMessageContent:
		m.handleMessageContent(event.Content)
		return // streaming tail must survive until message_end

	case types.EventTypeMessageEnd:
		m.handleMessageEnd()

	case types.EventTypeError:
		debugLog.Printf("Processing EventTypeError: %v", event.Error)
		m.handleError(event)

	case types.EventTypeTurnEnd:
		m.handleTurnEnd()

	case types.EventTypeUpdateBusy:
		m.handleUpdateBusy(event)

	case types.EventTypeAPICallStart:
		m.handleAPICallStart(event)

	case types.EventTypeTokenUsage:
		m.handleTokenUsage(event)
	}

	m.refreshViewport("")
}

func (m *model) renderThinking() string {
	return "Thinking " + formatEntry("", m.thinkingBuffer.String(), thinkingStyle, m.width)
}

func (m *model) handleThinkingContent(event *types.AgentEvent) {
	if event.Content == "" || !m.showThinking {
		return
	}
	m.thinkingBuffer.WriteString(event.Content)
	m.refreshViewport(m.renderThinking())
}

func (m *model) handleThinkingEnd() {
	if m.showThinking && m.thinkingBuffer.Len() > 0 {
		m.content.WriteString(m.renderThinking())
		m.content.WriteString("\n\n")
	}
	m.thinkingBuffer.Reset()
}

func (m *model) writeToolName(name string) {
	m.content.WriteString(formatEntry("[tool] ", name, toolStyle, m.width))
	m.content.WriteString("\n")
}

func (m *model) handleToolCallStart(event *types.AgentEvent) {
	// Early tool name detection arrives in the event metadata
	if toolName, ok := event.Metadata["tool_name"].(string); ok && toolName != "" && !m.toolNameDisplayed {
		m.writeToolName(toolName)
		m.refreshViewport("")
		m.toolNameDisplayed = true
	}
}

func (m *model) handleToolCall(event *types.AgentEvent) {
	if !m.toolNameDisplayed {
		m.writeToolName(event.ToolName)
	}
	m.toolNameDisplayed = false
}

func (m *model) handleToolResult(event *types.AgentEvent) {
	resultStr := fmt.Sprintf("%v", event.ToolOutput)
	m.content.WriteString(formatEntry("    ", resultStr, toolResultStyle, m.width))
	m.content.WriteString("\n\n")
}

func (m *model) handleToolResultError(event *types.AgentEvent) {
	m.content.WriteString(formatEntry("    ", fmt.Sprintf("Tool error: %v", event.Error), errorStyle, m.width))
	m.content.WriteString("\n\n")
}

func (m *model) handleMessageContent(content string) {
	if strings.TrimSpace(content) != "" && !m.hasMessageContentStarted {
		m.hasMessageContentStarted = true
	}
	m.messageBuffer.WriteString(content)
	m.refreshViewport(formatEntry("", m.messageBuffer.String(), lipgloss.NewStyle(), m.width))
}

func (m *model) handleMessageEnd() {
	if m.messageBuffer.Len() > 0 && m.hasMessageContentStarted {
		m.lastReply = m.messageBuffer.String()
		m.content.WriteString(headerStyle.Render(m.active))
		m.content.WriteString("\n")
		m.content.WriteString(formatEntry("", m.lastReply, lipgloss.NewStyle(), m.width))
		m.content.WriteString("\n\n")
		m.hasMessageContentStarted = false
	}
	m.messageBuffer.Reset()
}

func (m *model) handleError(event *types.AgentEvent) {
	m.content.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", event.Error)))
	m.content.WriteString("\n\n")
}

func (m *model) handleTurnEnd() {
	m.agentBusy = false
	m.saveSession()
	m.recalculateLayout()
}

func (m *model) handleUpdateBusy(event *types.AgentEvent) {
	wasBusy := m.agentBusy
	m.agentBusy = event.IsBusy
	if m.agentBusy {
		m.currentLoadingMessage = getLoadingMessage()
	}
	if wasBusy != m.agentBusy {
		m.recalculateLayout()
	}
}

func (m *model) handleAPICallStart(event *types.AgentEvent) {
	if event.APICallInfo != nil {
		m.currentContextTokens = event.APICallInfo.ContextTokens
		m.maxContextTokens = event.APICallInfo.MaxContextTokens
	}
}

func (m *model) handleTokenUsage(event *types.AgentEvent) {
	if event.TokenUsage != nil {
		m.totalPromptTokens += event.TokenUsage.PromptTokens
		m.totalCompletionTokens += event.TokenUsage.CompletionTokens
		m.totalTokens += event.TokenUsage.TotalTokens
	}
}

// saveSession persists the active agent's transcript after each turn.
func (m *model) saveSession() {
	if m.sessions == nil {
		return
	}
	ag, ok := m.agents[m.active]
	if !ok {
		return
	}
	if err := m.sessions.Save(m.active, ag.GetHistory()); err != nil {
		debugLog.Warnf("Failed to save session for %s: %v", m.active, err)
	}
}
