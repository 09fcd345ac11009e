package agent

import (
	"github.com/daykeep/daykeep/pkg/agent/prompts"
)

// buildSystemPrompt renders the full system prompt for this agent: its
// persona, the currently visible tools, and any custom instructions.
func (a *DefaultAgent) buildSystemPrompt() string {
	builder := prompts.NewPromptBuilder().
		WithTools(a.visibleTools())

	if a.persona != "" {
		builder.WithPersona(a.persona)
	}
	if a.customInstructions != "" {
		builder.WithCustomInstructions(a.customInstructions)
	}

	return builder.Build()
}
