package agent

import (
	"context"

	"github.com/daykeep/daykeep/pkg/types"
)

// runAgentLoop drives one turn: iterate until a loop-breaking tool fires,
// the circuit breaker trips, or the user cancels.
func (a *DefaultAgent) runAgentLoop(ctx context.Context) {
	var errorContext string

	for {
		select {
		case <-ctx.Done():
			// Cancelled mid-turn, e.g. via /stop
			a.memory.Add(types.NewUserMessage("Operation stopped by user."))
			return
		default:
		}

		shouldContinue, nextErrorContext := a.executeIteration(ctx, errorContext)
		if !shouldContinue {
			return
		}

		// A failed iteration leaves a recovery message for the next one
		errorContext = nextErrorContext
	}
}

// executeIteration performs a single iteration of the agent loop.
// Returns (shouldContinue, errorContext) where errorContext is injected
// as ephemeral user context into the next iteration for self-healing.
func (a *DefaultAgent) executeIteration(ctx context.Context, errorContext string) (bool, string) {
	pctx := a.preparePrompt(errorContext)

	resp, err := a.callLLM(ctx, pctx)
	if err != nil {
		// Cancellation stops silently; provider errors were already
		// emitted inside callLLM
		return false, ""
	}

	a.recordResponse(pctx, resp)

	return a.processToolCall(ctx, resp.toolCallContent)
}

// emitEvent sends an event on the event channel.
// This is a blocking send to ensure critical events like TurnEnd are not
// dropped. A closed channel during shutdown is tolerated.
func (a *DefaultAgent) emitEvent(event *types.AgentEvent) {
	defer func() {
		if r := recover(); r != nil {
			// Event channel closed during shutdown
		}
	}()
	a.channels.Event <- event
}
