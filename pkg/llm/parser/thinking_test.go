package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedThinking runs chunks through a ThinkingParser and collects the two
// content streams, including the final flush.
func feedThinking(p *ThinkingParser, chunks []string) (thinking, message string) {
	for _, chunk := range chunks {
		tc, mc := p.Parse(chunk)
		if tc != nil {
			thinking += tc.Content
		}
		if mc != nil {
			message += mc.Content
		}
	}
	tc, mc := p.Flush()
	if tc != nil {
		thinking += tc.Content
	}
	if mc != nil {
		message += mc.Content
	}
	return thinking, message
}

func TestThinkingParser_SeparatesThinkingFromMessage(t *testing.T) {
	p := NewThinkingParser()

	thinking, message := feedThinking(p, []string{
		"<thinking>",
		"The user wants to see today's tasks.",
		"</thinking>",
		"Here are your 3 tasks for today.",
	})

	assert.False(t, p.IsInThinking())
	assert.Equal(t, "The user wants to see today's tasks.", thinking)
	assert.Equal(t, "Here are your 3 tasks for today.", message)
}

func TestThinkingParser_ComparisonOperatorsInsideThinking(t *testing.T) {
	p := NewThinkingParser()

	// Reasoning about priorities produces bare < and > characters. They
	// must not swallow the closing tag or leak content into the wrong
	// stream.
	thinking, message := feedThinking(p, []string{
		"<thinking>",
		"Urgent means priority<3, so tasks 2 and 5 qualify.\n",
		"The gym block runs 18>17 so it is still ahead of us.\n",
		"</thinking>",
		"\n\n<tool>check</tool>",
	})

	require.False(t, p.IsInThinking(), "closing tag must be honored despite stray < and >")
	assert.Contains(t, thinking, "priority<3")
	assert.Contains(t, thinking, "18>17")
	assert.Contains(t, message, "<tool>check</tool>")
	assert.NotContains(t, message, "priority<3")
}

func TestThinkingParser_TagSplitAcrossChunks(t *testing.T) {
	p := NewThinkingParser()

	thinking, message := feedThinking(p, []string{
		"<think", "ing>planning the rollover</think", "ing>done",
	})

	assert.Equal(t, "planning the rollover", thinking)
	assert.Equal(t, "done", message)
	assert.False(t, p.IsInThinking())
}

func TestThinkingParser_UnclosedAngleBracket(t *testing.T) {
	p := NewThinkingParser()

	thinking, _ := feedThinking(p, []string{
		"<thinking>",
		"only 2 tasks left, score < 50 today",
		"</thinking>",
	})

	assert.False(t, p.IsInThinking())
	assert.Contains(t, thinking, "score < 50 today")
}

func TestThinkingParser_FlushEmitsDanglingTag(t *testing.T) {
	p := NewThinkingParser()

	_, message := feedThinking(p, []string{"half a tag: <unfinished"})

	assert.Equal(t, "half a tag: <unfinished", message,
		"a partial tag at end of stream must not be dropped")
}

func TestThinkingParser_Reset(t *testing.T) {
	p := NewThinkingParser()

	p.Parse("<thinking>unfinished reasoning")
	require.True(t, p.IsInThinking())

	p.Reset()
	assert.False(t, p.IsInThinking())

	_, message := p.Parse("plain reply")
	require.NotNil(t, message)
	assert.Equal(t, "plain reply", message.Content)
}
