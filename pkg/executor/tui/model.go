package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/daykeep/daykeep/pkg/agent"
	"github.com/daykeep/daykeep/pkg/session"
	"github.com/daykeep/daykeep/pkg/types"
)

// model represents the state of the TUI application.
type model struct {
	// Bubble Tea components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// Agent integration
	agents   map[string]agent.Agent
	order    []string
	active   string
	sessions *session.Store

	// Display options
	showThinking bool

	// Content buffers
	content        *strings.Builder
	thinkingBuffer *strings.Builder
	messageBuffer  *strings.Builder
	lastReply      string // most recent full assistant message, for clipboard copy

	// Agent state
	agentBusy             bool
	currentLoadingMessage string
	toolNameDisplayed     bool

	// Window dimensions
	width  int
	height int
	ready  bool

	// Message state
	hasMessageContentStarted bool

	// Token usage tracking
	totalPromptTokens     int
	totalCompletionTokens int
	totalTokens           int
	currentContextTokens  int
	maxContextTokens      int
}

// initialModel builds the starting model state.
func initialModel() model {
	ta := textarea.New()
	ta.Placeholder = "What's on your plate today?"
	ta.Focus()
	ta.Prompt = "> "
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headerStyle

	return model{
		agents:         make(map[string]agent.Agent),
		textarea:       ta,
		spinner:        sp,
		showThinking:   true,
		content:        &strings.Builder{},
		thinkingBuffer: &strings.Builder{},
		messageBuffer:  &strings.Builder{},
	}
}

// Init starts the spinner tick and textarea blink.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// activeChannels returns the channels of the currently active agent.
func (m *model) activeChannels() *types.AgentChannels {
	return m.agents[m.active].GetChannels()
}
