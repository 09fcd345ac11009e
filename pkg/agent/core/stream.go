// Package core contains internal stream processing utilities for the agent.
package core

import (
	"github.com/daykeep/daykeep/pkg/llm"
	"github.com/daykeep/daykeep/pkg/llm/parser"
	"github.com/daykeep/daykeep/pkg/types"
)

// streamState tracks which output section is currently open while a
// completion streams in, so start/end events are emitted in pairs.
type streamState struct {
	inThinking bool
	inMessage  bool
	inToolCall bool

	content  string
	thinking string
	toolCall string
	role     string
}

// ProcessStream consumes a provider stream, converts it into agent events,
// and invokes done with the accumulated content once the stream ends.
//
// Thinking chunks are forwarded as thinking events. Message chunks are run
// through the tool call parser so <tool> blocks become tool call events while
// the surrounding text becomes message events. The done callback receives the
// final message content, thinking content, inner tool call XML (empty if the
// model made no tool call), and the assistant role reported by the provider.
func ProcessStream(
	stream <-chan *llm.StreamChunk,
	emit func(*types.AgentEvent),
	done func(content, thinking, toolCall, role string),
) {
	state := &streamState{}
	toolParser := parser.NewToolCallParser()

	for chunk := range stream {
		if chunk == nil {
			continue
		}

		if chunk.IsError() {
			emit(types.NewErrorEvent(chunk.Error))
			continue
		}

		if chunk.Role != "" {
			state.role = chunk.Role
		}

		if chunk.Finished || chunk.Content == "" {
			continue
		}

		if chunk.IsThinking() {
			processThinking(state, chunk.Content, emit)
			continue
		}

		processMessage(state, toolParser, chunk.Content, emit)
	}

	// Surface anything still buffered in the tool parser. An unterminated
	// tool block comes back as regular content so it is not lost.
	if _, regular := toolParser.Flush(); regular != nil && regular.Content != "" {
		emitRegular(state, regular.Content, emit)
	}

	closeSections(state, emit)
	done(state.content, state.thinking, state.toolCall, state.role)
}

// processThinking handles a thinking-typed chunk.
func processThinking(state *streamState, content string, emit func(*types.AgentEvent)) {
	if state.inMessage {
		emit(types.NewMessageEndEvent())
		state.inMessage = false
	}

	if !state.inThinking {
		emit(types.NewThinkingStartEvent())
		state.inThinking = true
	}

	emit(types.NewThinkingContentEvent(content))
	state.thinking += content
}

// processMessage handles a message-typed chunk, separating tool call blocks
// from regular message content.
func processMessage(state *streamState, toolParser *parser.ToolCallParser, content string, emit func(*types.AgentEvent)) {
	if state.inThinking {
		emit(types.NewThinkingEndEvent())
		state.inThinking = false
	}

	toolCall, regular := toolParser.Parse(content)

	if regular != nil && regular.Content != "" {
		emitRegular(state, regular.Content, emit)
	}

	// Signal the start of a tool call as soon as the opening tag is seen,
	// even though the content only arrives once the block completes.
	if toolParser.IsInToolCall() && !state.inToolCall {
		if state.inMessage {
			emit(types.NewMessageEndEvent())
			state.inMessage = false
		}
		emit(types.NewToolCallStartEvent())
		state.inToolCall = true
	}

	if toolCall != nil {
		if !state.inToolCall {
			if state.inMessage {
				emit(types.NewMessageEndEvent())
				state.inMessage = false
			}
			emit(types.NewToolCallStartEvent())
			state.inToolCall = true
		}
		emit(types.NewToolCallContentEvent(toolCall.Content))
		emit(types.NewToolCallEndEvent())
		state.inToolCall = false
		state.toolCall = toolCall.Content
	}
}

// emitRegular forwards regular content as message events.
func emitRegular(state *streamState, content string, emit func(*types.AgentEvent)) {
	if !state.inMessage {
		emit(types.NewMessageStartEvent())
		state.inMessage = true
	}
	emit(types.NewMessageContentEvent(content))
	state.content += content
}

// closeSections ends any section left open when the stream terminates.
func closeSections(state *streamState, emit func(*types.AgentEvent)) {
	if state.inThinking {
		emit(types.NewThinkingEndEvent())
		state.inThinking = false
	}
	if state.inMessage {
		emit(types.NewMessageEndEvent())
		state.inMessage = false
	}
	if state.inToolCall {
		emit(types.NewToolCallEndEvent())
		state.inToolCall = false
	}
}
