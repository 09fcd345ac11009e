package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedToolCalls runs chunks through a ToolCallParser, including the final
// flush, and returns the last tool call plus all regular content.
func feedToolCalls(p *ToolCallParser, chunks []string) (toolCall *ParsedContent, regular string) {
	for _, chunk := range chunks {
		tc, rc := p.Parse(chunk)
		if tc != nil {
			toolCall = tc
		}
		if rc != nil {
			regular += rc.Content
		}
	}
	tc, rc := p.Flush()
	if tc != nil {
		toolCall = tc
	}
	if rc != nil {
		regular += rc.Content
	}
	return toolCall, regular
}

func TestToolCallAfterReasoningWithComparisons(t *testing.T) {
	p := NewToolCallParser()

	// The reviewer reasons about scores with bare < and > before calling
	// a tool. The tag matching must not lose the tool call.
	toolCall, regular := feedToolCalls(p, []string{
		"Looking at the week:\n",
		"- Monday scored 80>60, a good day\n",
		"- Wednesday dipped, 2<4 tasks done\n",
		"</thinking>\n\n",
		"<tool>\n",
		"<server_name>local</server_name>\n",
		"<tool_name>get_progress_insights</tool_name>\n",
		"<arguments>\n",
		"<days>7</days>\n",
		"</arguments>\n",
		"</tool>",
	})

	require.NotNil(t, toolCall, "tool call must be detected after reasoning with < and >")
	assert.Equal(t, ContentTypeToolCall, toolCall.Type)

	expected := `<server_name>local</server_name>
<tool_name>get_progress_insights</tool_name>
<arguments>
<days>7</days>
</arguments>`
	assert.Equal(t, expected, toolCall.Content)

	assert.Contains(t, regular, "80>60")
	assert.Contains(t, regular, "2<4")
}

func TestToolCallPreservesXMLEntities(t *testing.T) {
	p := NewToolCallParser()

	// Escaped entities in task titles must come through untouched; the
	// XML layer decodes them later.
	toolCall, _ := feedToolCalls(p, []string{
		"<tool>\n",
		"<server_name>local</server_name>\n",
		"<tool_name>add_task</tool_name>\n",
		"<arguments>\n",
		"<title>Email Q3 plan to Sam &amp; Priya</title>\n",
		"<description>cover the &quot;infra &amp; tooling&quot; thread</description>\n",
		"<priority>2</priority>\n",
		"</arguments>\n",
		"</tool>",
	})

	require.NotNil(t, toolCall)
	assert.Contains(t, toolCall.Content, "Sam &amp; Priya")
	assert.Contains(t, toolCall.Content, "&quot;infra &amp; tooling&quot;")
}

func TestToolCallSurroundedByLooseBrackets(t *testing.T) {
	p := NewToolCallParser()

	toolCall, regular := feedToolCalls(p, []string{
		"Scores: monday < 50\n",
		"tuesday > 75\n",
		"spread: low<mid && mid>floor\n",
		"<tool>\n",
		"<server_name>local</server_name>\n",
		"<tool_name>get_daily_report</tool_name>\n",
		"<arguments><date>2026-08-24</date></arguments>\n",
		"</tool>\n",
		"wrapping up: a<b>c\n",
	})

	require.NotNil(t, toolCall, "tool call must be detected despite loose < and > around it")
	assert.Contains(t, toolCall.Content, "get_daily_report")

	assert.Contains(t, regular, "monday < 50")
	assert.Contains(t, regular, "tuesday > 75")
	assert.Contains(t, regular, "a<b>c")
}
