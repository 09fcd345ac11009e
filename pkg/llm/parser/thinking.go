// Package parser provides utilities for parsing structured content from LLM streams.
package parser

import (
	"strings"

	"github.com/daykeep/daykeep/pkg/llm"
)

const (
	thinkingOpenTag  = "<thinking>"
	thinkingCloseTag = "</thinking>"
)

// ThinkingParser splits a streamed response into thinking and message
// content by tracking <thinking> tags across chunk boundaries. Stray <
// and > characters in the content (comparisons, code, XML entities) must
// not disturb the tag tracking.
type ThinkingParser struct {
	text     strings.Builder // content pending emission
	tag      strings.Builder // potential tag between '<' and '>'
	thinking bool
	inTag    bool
}

// NewThinkingParser creates a new thinking parser.
func NewThinkingParser() *ThinkingParser {
	return &ThinkingParser{}
}

// chunkPair accumulates output for one Parse or Flush call, at most one
// chunk per content type.
type chunkPair struct {
	thinking *llm.StreamChunk
	message  *llm.StreamChunk
}

func (cp *chunkPair) add(typ llm.ContentType, text string) {
	if text == "" {
		return
	}

	target := &cp.message
	if typ == llm.ContentTypeThinking {
		target = &cp.thinking
	}

	if *target == nil {
		*target = &llm.StreamChunk{Content: text, Type: typ}
		return
	}
	(*target).Content += text
}

// Parse processes one content chunk. It returns a thinking chunk, a
// message chunk, or both, depending on what the chunk contained; tags
// themselves are consumed and never emitted.
func (p *ThinkingParser) Parse(content string) (thinkingChunk, messageChunk *llm.StreamChunk) {
	var out chunkPair

	for _, ch := range content {
		switch {
		case ch == '<':
			// A second '<' means the buffered text was not a tag after all
			if p.inTag {
				out.add(p.mode(), p.drainTag())
			}
			out.add(p.mode(), p.drainText())
			p.inTag = true
			p.tag.WriteRune(ch)

		case ch == '>' && p.inTag:
			p.tag.WriteRune(ch)
			tag := p.drainTag()
			p.inTag = false

			switch tag {
			case thinkingOpenTag:
				p.thinking = true
			case thinkingCloseTag:
				p.thinking = false
			default:
				// Some other element, pass it through as content
				out.add(p.mode(), tag)
			}

		case p.inTag:
			p.tag.WriteRune(ch)

		default:
			p.text.WriteRune(ch)
		}
	}

	out.add(p.mode(), p.drainText())
	return out.thinking, out.message
}

// Flush emits whatever is still buffered, including a dangling partial
// tag. Call it once the stream ends.
func (p *ThinkingParser) Flush() (thinkingChunk, messageChunk *llm.StreamChunk) {
	var out chunkPair

	if p.inTag {
		out.add(p.mode(), p.drainTag())
		p.inTag = false
	}
	out.add(p.mode(), p.drainText())

	return out.thinking, out.message
}

// IsInThinking returns true if currently parsing thinking content.
func (p *ThinkingParser) IsInThinking() bool {
	return p.thinking
}

// Reset resets the parser state for a new stream.
func (p *ThinkingParser) Reset() {
	p.text.Reset()
	p.tag.Reset()
	p.thinking = false
	p.inTag = false
}

func (p *ThinkingParser) mode() llm.ContentType {
	if p.thinking {
		return llm.ContentTypeThinking
	}
	return llm.ContentTypeMessage
}

func (p *ThinkingParser) drainText() string {
	s := p.text.String()
	p.text.Reset()
	return s
}

func (p *ThinkingParser) drainTag() string {
	s := p.tag.String()
	p.tag.Reset()
	return s
}
