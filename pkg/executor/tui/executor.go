// Package tui provides a terminal user interface executor for the
// daykeep agents, offering an interactive chat for conversations.
//
// The TUI codebase is split into multiple files:
// - executor.go: Main executor implementation and program lifecycle
// - model.go: Core model structure and state
// - update.go: Bubble Tea Update function and message handling
// - view.go: Bubble Tea View function and rendering
// - events.go: Agent event processing
// - helpers.go: Utility functions
// - styles.go: Color schemes and styling
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/daykeep/daykeep/pkg/agent"
	"github.com/daykeep/daykeep/pkg/logging"
	"github.com/daykeep/daykeep/pkg/session"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("tui")
	if err != nil {
		debugLog.Warnf("Failed to initialize TUI logger, using stderr fallback: %v", err)
	}
}

// Executor is a TUI-based executor that provides an interactive chat
// interface over one or more named agents.
type Executor struct {
	agents       map[string]agent.Agent
	order        []string
	sessions     *session.Store
	showThinking bool
	program      *tea.Program
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithAgent registers a named agent. The first registered agent is the
// active one at startup.
func WithAgent(name string, ag agent.Agent) ExecutorOption {
	return func(e *Executor) {
		if _, exists := e.agents[name]; !exists {
			e.order = append(e.order, name)
		}
		e.agents[name] = ag
	}
}

// WithSessionStore enables transcript persistence after each turn.
func WithSessionStore(store *session.Store) ExecutorOption {
	return func(e *Executor) {
		e.sessions = store
	}
}

// WithShowThinking enables/disables displaying the agent's thinking process.
func WithShowThinking(show bool) ExecutorOption {
	return func(e *Executor) {
		e.showThinking = show
	}
}

// NewExecutor creates a new TUI executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		agents:       make(map[string]agent.Agent),
		showThinking: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run starts the TUI executor and blocks until the user exits.
func (e *Executor) Run(ctx context.Context) error {
	if len(e.agents) == 0 {
		return fmt.Errorf("no agents registered")
	}
	debugLog.Printf("TUI executor starting with agents: %v", e.order)

	for name, ag := range e.agents {
		if err := ag.Start(ctx); err != nil {
			return fmt.Errorf("failed to start agent %s: %w", name, err)
		}
	}

	m := initialModel()
	m.agents = e.agents
	m.order = e.order
	m.active = e.order[0]
	m.sessions = e.sessions
	m.showThinking = e.showThinking

	e.program = tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// Forward every agent's events into the program, tagged with the
	// agent name so inactive agents' events can be dropped.
	for name, ag := range e.agents {
		go func(name string, ag agent.Agent) {
			for event := range ag.GetChannels().Event {
				e.program.Send(agentEventMsg{agent: name, event: event})
			}
		}(name, ag)
	}

	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for name, ag := range e.agents {
		if err := ag.Shutdown(shutdownCtx); err != nil {
			debugLog.Warnf("Failed to shut down agent %s: %v", name, err)
		}
	}

	return nil
}
