// Package cli provides a line-oriented terminal executor for daykeep
// agents.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "os"
//
//	    "github.com/daykeep/daykeep/pkg/agent"
//	    "github.com/daykeep/daykeep/pkg/agent/prompts"
//	    "github.com/daykeep/daykeep/pkg/executor/cli"
//	    "github.com/daykeep/daykeep/pkg/llm/openai"
//	)
//
//	func main() {
//	    provider, _ := openai.NewProvider(
//	        os.Getenv("GROQ_API_KEY"),
//	        openai.WithModel("llama-3.3-70b-versatile"),
//	    )
//
//	    assistant := agent.NewDefaultAgent(provider,
//	        agent.WithPersona(prompts.AssistantPersonaPrompt),
//	    )
//
//	    executor := cli.NewExecutor(
//	        cli.WithAgent("assistant", assistant),
//	        cli.WithShowThinking(true),
//	    )
//
//	    if err := executor.Run(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/daykeep/daykeep/pkg/agent"
	"github.com/daykeep/daykeep/pkg/session"
	"github.com/daykeep/daykeep/pkg/types"
)

// Executor is a CLI-based executor that enables turn-by-turn conversation
// with the daykeep agents through terminal input/output. It holds one or
// more named agents and switches between them with slash commands.
type Executor struct {
	agents map[string]agent.Agent
	order  []string
	active string

	sessions *session.Store
	reader   *bufio.Reader
	writer   io.Writer

	showThinking bool

	// Set once the first message content of a turn has been prefixed
	// with the agent name
	messageStartPrinted bool
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
		if e.active == "" {
			e.active = name
		}
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

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.writer = w
	}
}

// NewExecutor creates a new CLI executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		agents:       make(map[string]agent.Agent),
		reader:       bufio.NewReader(os.Stdin),
		writer:       os.Stdout,
		showThinking: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run starts the executor and begins the conversation loop.
// Returns when the user exits or an error occurs.
func (e *Executor) Run(ctx context.Context) error {
	if len(e.agents) == 0 {
		return fmt.Errorf("no agents registered")
	}

	// Start every agent; each keeps its own history
	for name, ag := range e.agents {
		if err := ag.Start(ctx); err != nil {
			return fmt.Errorf("failed to start agent %s: %w", name, err)
		}
	}

	// Event forwarding follows whichever agent is active
	eventsDone := make(chan struct{})
	turnEnd := make(chan struct{}, 1)
	stopEvents := e.listenTo(e.agents[e.active], eventsDone, turnEnd)

	exit := func() {
		stopEvents()
		e.shutdown(ctx)
		<-eventsDone
	}

	fmt.Fprintln(e.writer, "daykeep")
	fmt.Fprintf(e.writer, "Talking to the %s agent. Commands: %s, /quit\n", e.active, e.commandList())
	fmt.Fprintln(e.writer)

	for {
		select {
		case <-ctx.Done():
			exit()
			return ctx.Err()
		default:
		}

		fmt.Fprintf(e.writer, "(%s) > ", e.active)
		line, err := e.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				exit()
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := e.handleCommand(line, &stopEvents, &eventsDone, turnEnd); quit {
				exit()
				return nil
			}
			continue
		}

		e.agents[e.active].GetChannels().Input <- types.NewUserInput(line)
		<-turnEnd
		e.saveSession()
	}
}

// handleCommand processes a slash command. Returns true when the user
// asked to quit.
func (e *Executor) handleCommand(input string, stopEvents *func(), eventsDone *chan struct{}, turnEnd chan struct{}) bool {
	name := strings.TrimPrefix(input, "/")
	if name == "quit" || name == "exit" {
		return true
	}

	// Agent switching commands, e.g. /assistant, /review
	target := e.resolveAgent(name)
	if target == "" {
		fmt.Fprintf(e.writer, "Unknown command %s. Available: %s, /quit\n", input, e.commandList())
		return false
	}
	if target == e.active {
		fmt.Fprintf(e.writer, "Already talking to the %s agent.\n", target)
		return false
	}

	// Re-point the event loop at the new agent
	(*stopEvents)()
	<-*eventsDone
	e.active = target
	*eventsDone = make(chan struct{})
	*stopEvents = e.listenTo(e.agents[e.active], *eventsDone, turnEnd)

	fmt.Fprintf(e.writer, "Switched to the %s agent.\n", target)
	return false
}

// resolveAgent maps a command name to a registered agent, accepting
// prefixes like /review for the reviewer agent.
func (e *Executor) resolveAgent(name string) string {
	if _, ok := e.agents[name]; ok {
		return name
	}
	for _, candidate := range e.order {
		if strings.HasPrefix(candidate, name) {
			return candidate
		}
	}
	return ""
}

func (e *Executor) commandList() string {
	cmds := make([]string, len(e.order))
	for i, name := range e.order {
		cmds[i] = "/" + name
	}
	return strings.Join(cmds, ", ")
}

// listenTo starts forwarding an agent's events to the terminal and
// returns a function that stops the forwarding.
func (e *Executor) listenTo(ag agent.Agent, done chan struct{}, turnEnd chan struct{}) func() {
	stop := make(chan struct{})
	go func() {
		defer close(done)
		events := ag.GetChannels().Event
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				e.render(event, turnEnd)
			case <-stop:
				return
			}
		}
	}()

	var stopped bool
	return func() {
		if !stopped {
			stopped = true
			close(stop)
		}
	}
}

// saveSession persists the active agent's transcript.
func (e *Executor) saveSession() {
	if e.sessions == nil {
		return
	}
	if err := e.sessions.Save(e.active, e.agents[e.active].GetHistory()); err != nil {
		fmt.Fprintf(e.writer, "Warning: could not save session: %v\n", err)
	}
}

// render writes one agent event to the terminal. Tool call XML phases and
// busy updates are deliberately silent on this surface.
func (e *Executor) render(event *types.AgentEvent, turnEnd chan struct{}) {
	switch event.Type {
	case types.EventTypeThinkingStart:
		if e.showThinking {
			fmt.Fprintln(e.writer, "\n[Thinking...]")
		}

	case types.EventTypeThinkingContent:
		if e.showThinking {
			fmt.Fprint(e.writer, event.Content)
		}

	case types.EventTypeThinkingEnd:
		if e.showThinking {
			fmt.Fprintln(e.writer, "\n[Done thinking]")
		}

	case types.EventTypeToolCall:
		fmt.Fprintf(e.writer, "\n[%s]\n", event.ToolName)

	case types.EventTypeToolResult:
		if result, ok := event.ToolOutput.(string); ok {
			fmt.Fprintf(e.writer, "%s\n", result)
		} else {
			fmt.Fprintf(e.writer, "%v\n", event.ToolOutput)
		}

	case types.EventTypeToolResultError:
		fmt.Fprintf(e.writer, "Tool error (%s): %v\n", event.ToolName, event.Error)

	case types.EventTypeMessageStart:
		e.messageStartPrinted = false

	case types.EventTypeMessageContent:
		if event.Content != "" && !e.messageStartPrinted {
			fmt.Fprintf(e.writer, "%s:\n", e.active)
			e.messageStartPrinted = true
		}
		fmt.Fprint(e.writer, event.Content)

	case types.EventTypeMessageEnd:
		fmt.Fprintln(e.writer)

	case types.EventTypeError:
		fmt.Fprintf(e.writer, "\nError: %v\n", event.Error)

	case types.EventTypeTurnEnd:
		select {
		case turnEnd <- struct{}{}:
		default:
		}
	}
}

// shutdown gracefully shuts down all agents.
func (e *Executor) shutdown(ctx context.Context) {
	fmt.Fprintln(e.writer, "\nShutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for name, ag := range e.agents {
		if err := ag.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(e.writer, "Warning: shutdown error for %s: %v\n", name, err)
		}
	}
}
