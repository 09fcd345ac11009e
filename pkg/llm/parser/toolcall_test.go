package parser

import (
	"strings"
	"testing"
)

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

func TestToolCallParserSingleChunk(t *testing.T) {
	parser := NewToolCallParser()

	input := "Here is the plan.\n<tool>\n<server_name>local</server_name>\n<tool_name>add_task</tool_name>\n<arguments>\n<title>Review notes</title>\n</arguments>\n</tool>"

	tc, rc := parser.Parse(input)

	if tc == nil {
		t.Fatal("Expected tool call, got nil")
	}
	if tc.Type != ContentTypeToolCall {
		t.Errorf("Expected ContentTypeToolCall, got %s", tc.Type)
	}
	if !contains(tc.Content, "<tool_name>add_task</tool_name>") {
		t.Errorf("Tool call content missing tool name.\nGot: %s", tc.Content)
	}
	if contains(tc.Content, "<tool>") || contains(tc.Content, "</tool>") {
		t.Errorf("Tool call content should not include wrapper tags.\nGot: %s", tc.Content)
	}

	if rc == nil {
		t.Fatal("Expected regular content, got nil")
	}
	if !contains(rc.Content, "Here is the plan.") {
		t.Errorf("Regular content mismatch.\nGot: %s", rc.Content)
	}
}

func TestToolCallParserSpanningChunks(t *testing.T) {
	parser := NewToolCallParser()

	// Opening tag split across chunk boundaries
	chunks := []string{
		"<to",
		"ol>\n<server_name>local</server_name>\n",
		"<tool_name>list_tasks</tool_name>\n<arguments></arguments>\n</to",
		"ol>",
	}

	var toolCall *ParsedContent
	for _, chunk := range chunks {
		tc, _ := parser.Parse(chunk)
		if tc != nil {
			toolCall = tc
		}
	}

	if toolCall == nil {
		t.Fatal("Expected tool call spanning chunks, got nil")
	}
	if !contains(toolCall.Content, "list_tasks") {
		t.Errorf("Tool call content mismatch.\nGot: %s", toolCall.Content)
	}
}

func TestToolCallParserFlushUnterminated(t *testing.T) {
	parser := NewToolCallParser()

	parser.Parse("<tool>\n<tool_name>add_task</tool_name>\n")

	if !parser.IsInToolCall() {
		t.Error("Parser should be inside an unclosed tool block")
	}

	tc, rc := parser.Flush()
	if tc != nil {
		t.Error("Unterminated tool block should not produce a tool call")
	}
	if rc == nil {
		t.Fatal("Unterminated tool block should be flushed as regular content")
	}
	if !contains(rc.Content, "<tool>") || !contains(rc.Content, "add_task") {
		t.Errorf("Flushed content should include the partial block.\nGot: %s", rc.Content)
	}
	if parser.IsInToolCall() {
		t.Error("Flush should clear tool state")
	}
}

func TestToolCallParserReset(t *testing.T) {
	parser := NewToolCallParser()

	parser.Parse("<tool>partial")
	parser.Reset()

	if parser.IsInToolCall() {
		t.Error("Reset should clear tool state")
	}

	tc, _ := parser.Parse("<tool>x</tool>")
	if tc == nil {
		t.Fatal("Parser should work normally after reset")
	}
	if tc.Content != "x" {
		t.Errorf("Tool content = %q, want %q", tc.Content, "x")
	}
}
