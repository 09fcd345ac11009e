package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/daykeep/daykeep/pkg/llm"
	"github.com/daykeep/daykeep/pkg/types"
)

// runStream feeds chunks through ProcessStream and collects the events and
// final callback values.
func runStream(chunks []*llm.StreamChunk) (events []*types.AgentEvent, content, thinking, toolCall, role string) {
	stream := make(chan *llm.StreamChunk, len(chunks))
	for _, c := range chunks {
		stream <- c
	}
	close(stream)

	ProcessStream(stream,
		func(e *types.AgentEvent) { events = append(events, e) },
		func(c, th, tc, r string) {
			content, thinking, toolCall, role = c, th, tc, r
		})
	return
}

func eventTypes(events []*types.AgentEvent) []types.AgentEventType {
	out := make([]types.AgentEventType, len(events))
	for i, e := range events {
		out[i] = e.Type
	}
	return out
}

func TestProcessStream_ThinkingThenToolCall(t *testing.T) {
	chunks := []*llm.StreamChunk{
		{Content: "Let me check today's tasks.", Type: llm.ContentTypeThinking, Role: "assistant"},
		{Content: "<tool><server_name>local</server_name>", Type: llm.ContentTypeMessage},
		{Content: "<tool_name>list_tasks</tool_name><arguments></arguments></tool>", Type: llm.ContentTypeMessage},
		{Finished: true},
	}

	events, content, thinking, toolCall, role := runStream(chunks)

	if thinking != "Let me check today's tasks." {
		t.Errorf("unexpected thinking: %q", thinking)
	}
	if content != "" {
		t.Errorf("expected no message content, got %q", content)
	}
	if toolCall == "" || !strings.Contains(toolCall, "list_tasks") {
		t.Errorf("expected tool call with list_tasks, got %q", toolCall)
	}
	if role != "assistant" {
		t.Errorf("expected assistant role, got %q", role)
	}

	got := eventTypes(events)
	want := []types.AgentEventType{
		types.EventTypeThinkingStart,
		types.EventTypeThinkingContent,
		types.EventTypeThinkingEnd,
		types.EventTypeToolCallStart,
		types.EventTypeToolCallContent,
		types.EventTypeToolCallEnd,
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestProcessStream_MessageOnly(t *testing.T) {
	chunks := []*llm.StreamChunk{
		{Content: "Here is your ", Type: llm.ContentTypeMessage},
		{Content: "schedule for today.", Type: llm.ContentTypeMessage},
		{Finished: true},
	}

	events, content, _, toolCall, _ := runStream(chunks)

	if content != "Here is your schedule for today." {
		t.Errorf("unexpected content: %q", content)
	}
	if toolCall != "" {
		t.Errorf("expected no tool call, got %q", toolCall)
	}

	got := eventTypes(events)
	if got[0] != types.EventTypeMessageStart {
		t.Errorf("expected message_start first, got %s", got[0])
	}
	if got[len(got)-1] != types.EventTypeMessageEnd {
		t.Errorf("expected message_end last, got %s", got[len(got)-1])
	}
}

func TestProcessStream_UnterminatedToolCallFlushedAsMessage(t *testing.T) {
	chunks := []*llm.StreamChunk{
		{Content: "<tool><tool_name>add_task", Type: llm.ContentTypeMessage},
	}

	_, content, _, toolCall, _ := runStream(chunks)

	if toolCall != "" {
		t.Errorf("unterminated block must not produce a tool call, got %q", toolCall)
	}
	if !strings.Contains(content, "<tool>") || !strings.Contains(content, "add_task") {
		t.Errorf("unterminated block should surface as message content, got %q", content)
	}
}

func TestProcessStream_ErrorChunkEmitsErrorEvent(t *testing.T) {
	chunks := []*llm.StreamChunk{
		{Error: errors.New("connection reset")},
	}

	events, _, _, _, _ := runStream(chunks)

	found := false
	for _, e := range events {
		if e.IsErrorEvent() {
			found = true
		}
	}
	if !found {
		t.Error("expected an error event for an error chunk")
	}
}
