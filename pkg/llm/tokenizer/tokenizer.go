// Package tokenizer provides client-side token counting for prompt budgeting.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/daykeep/daykeep/pkg/types"
)

// encodingName is the tiktoken encoding used for counting. cl100k_base is a
// close enough approximation for the Llama and GPT model families daykeep
// talks to; counts are used for budgeting, not billing.
const encodingName = "cl100k_base"

// messageOverheadTokens approximates the per-message framing overhead the
// chat completions API adds around each message.
const messageOverheadTokens = 4

// Tokenizer counts tokens in text and conversation transcripts.
type Tokenizer struct {
	encoding *tiktoken.Tiktoken
}

// New creates a tokenizer. Initialization downloads or loads the encoding
// tables, so callers should treat failure as non-fatal and fall back to
// approximate counting.
func New() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s encoding: %w", encodingName, err)
	}
	return &Tokenizer{encoding: enc}, nil
}

// CountTokens returns the number of tokens in the given text.
func (t *Tokenizer) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	return len(t.encoding.Encode(text, nil, nil))
}

// CountMessagesTokens returns the token count for a full message list,
// including per-message framing overhead.
func (t *Tokenizer) CountMessagesTokens(messages []*types.Message) int {
	total := 0
	for _, msg := range messages {
		if msg == nil {
			continue
		}
		total += t.CountTokens(msg.Content)
		total += t.CountTokens(string(msg.Role))
		total += messageOverheadTokens
	}
	return total
}
