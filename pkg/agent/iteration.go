package agent

import (
	"context"
	"fmt"

	"github.com/daykeep/daykeep/pkg/agent/core"
	"github.com/daykeep/daykeep/pkg/agent/prompts"
	"github.com/daykeep/daykeep/pkg/types"
)

// promptContext holds the prepared prompt and related metadata
type promptContext struct {
	systemPrompt string
	messages     []*types.Message
	promptTokens int
}

// llmResponse holds the response from the LLM
type llmResponse struct {
	assistantContent string
	toolCallContent  string
	completionTokens int
}

// preparePrompt builds the message list for one iteration: system prompt,
// memory, and the optional error-recovery context from the last iteration.
func (a *DefaultAgent) preparePrompt(errorContext string) *promptContext {
	systemPrompt := a.buildSystemPrompt()
	messages := prompts.BuildMessages(systemPrompt, a.memory.GetAll(), "", errorContext)

	pctx := &promptContext{
		systemPrompt: systemPrompt,
		messages:     messages,
	}
	if a.tokenizer != nil {
		pctx.promptTokens = a.tokenizer.CountMessagesTokens(messages)
		agentDebugLog.Printf("Prompt tokens before send: %d", pctx.promptTokens)
	}
	return pctx
}

// callLLM sends the request to the LLM and drains the streaming response.
func (a *DefaultAgent) callLLM(ctx context.Context, pctx *promptContext) (*llmResponse, error) {
	maxTokens := 0
	if info := a.provider.GetModelInfo(); info != nil {
		maxTokens = info.MaxTokens
	}
	a.emitEvent(types.NewAPICallStartEvent("llm", pctx.promptTokens, maxTokens))

	stream, err := a.provider.StreamCompletion(ctx, pctx.messages)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Provider failures end the loop; stream-internal errors are
		// surfaced through events instead
		a.emitEvent(types.NewErrorEvent(fmt.Errorf("failed to start completion: %w", err)))
		return nil, err
	}

	resp := &llmResponse{}
	core.ProcessStream(stream, a.emitEvent, func(content, thinking, toolCall, role string) {
		resp.assistantContent = content
		resp.toolCallContent = toolCall
	})

	if a.tokenizer != nil {
		resp.completionTokens = a.tokenizer.CountTokens(resp.assistantContent + resp.toolCallContent)
	}
	return resp, nil
}

// recordResponse handles token usage events and adds the response to memory
func (a *DefaultAgent) recordResponse(pctx *promptContext, resp *llmResponse) {
	if pctx.promptTokens > 0 || resp.completionTokens > 0 {
		a.emitEvent(types.NewTokenUsageEvent(
			pctx.promptTokens,
			resp.completionTokens,
			pctx.promptTokens+resp.completionTokens,
		))
	}

	// The tool call is stored with its wrapper so the transcript replays
	// exactly what the model produced
	fullResponse := resp.assistantContent
	if resp.toolCallContent != "" {
		fullResponse += "<tool>" + resp.toolCallContent + "</tool>"
	}
	a.memory.Add(&types.Message{
		Role:    types.RoleAssistant,
		Content: fullResponse,
	})
}
