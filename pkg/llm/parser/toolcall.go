package parser

import (
	"strings"
)

const (
	toolOpenTag  = "<tool>"
	toolCloseTag = "</tool>"
)

// ContentType classifies content separated by the ToolCallParser.
type ContentType string

const (
	// ContentTypeRegular marks content outside a tool call block.
	ContentTypeRegular ContentType = "regular"

	// ContentTypeToolCall marks the inner content of a <tool> block.
	ContentTypeToolCall ContentType = "tool_call"
)

// ParsedContent is a unit of content produced by the ToolCallParser.
type ParsedContent struct {
	Content string
	Type    ContentType
}

// ToolCallParser separates <tool> blocks from regular content in a stream.
// It maintains state across chunks so tags that span chunk boundaries are
// handled correctly, and it does not get confused by stray < and > characters
// in surrounding content (code snippets, comparisons, HTML entities).
type ToolCallParser struct {
	buffer     strings.Builder // regular content accumulated within a Parse call
	tagBuffer  strings.Builder // potential <tool> opening tag being matched
	toolBuffer strings.Builder // content inside an open tool block
	inTool     bool
}

// NewToolCallParser creates a new tool call parser.
func NewToolCallParser() *ToolCallParser {
	return &ToolCallParser{}
}

// Parse processes a content chunk and returns the completed tool call and any
// regular content found in it. A tool call is only returned once its closing
// tag has been seen; until then its content is buffered internally.
func (p *ToolCallParser) Parse(content string) (toolCall, regular *ParsedContent) {
	for _, ch := range content {
		if p.inTool {
			p.toolBuffer.WriteRune(ch)
			if tc := p.tryCompleteToolCall(); tc != nil {
				toolCall = tc
			}
			continue
		}

		if p.tagBuffer.Len() > 0 {
			p.tagBuffer.WriteRune(ch)
			tag := p.tagBuffer.String()

			if tag == toolOpenTag {
				p.tagBuffer.Reset()
				p.inTool = true
				continue
			}

			if strings.HasPrefix(toolOpenTag, tag) {
				// Still a viable prefix of <tool>, keep buffering
				continue
			}

			// Not a tool tag. Flush it as regular content, restarting the
			// tag match if the breaking character was another '<'.
			if ch == '<' {
				p.buffer.WriteString(tag[:len(tag)-1])
				p.tagBuffer.Reset()
				p.tagBuffer.WriteRune('<')
			} else {
				p.buffer.WriteString(tag)
				p.tagBuffer.Reset()
			}
			continue
		}

		if ch == '<' {
			p.tagBuffer.WriteRune(ch)
			continue
		}

		p.buffer.WriteRune(ch)
	}

	if p.buffer.Len() > 0 {
		regular = &ParsedContent{Content: p.buffer.String(), Type: ContentTypeRegular}
		p.buffer.Reset()
	}

	return toolCall, regular
}

// tryCompleteToolCall checks whether the tool buffer now holds a complete
// block and, if so, returns the inner content with the wrapping tags removed.
func (p *ToolCallParser) tryCompleteToolCall() *ParsedContent {
	content := p.toolBuffer.String()
	if !strings.HasSuffix(content, toolCloseTag) {
		return nil
	}

	inner := strings.TrimSpace(strings.TrimSuffix(content, toolCloseTag))
	p.toolBuffer.Reset()
	p.inTool = false

	return &ParsedContent{Content: inner, Type: ContentTypeToolCall}
}

// IsInToolCall returns true if currently inside an unclosed tool block.
func (p *ToolCallParser) IsInToolCall() bool {
	return p.inTool
}

// Flush returns any buffered content that hasn't been emitted yet. An
// unterminated tool block is surfaced as regular content, opening tag
// included, so nothing is silently dropped at end of stream.
func (p *ToolCallParser) Flush() (toolCall, regular *ParsedContent) {
	var out strings.Builder

	if p.tagBuffer.Len() > 0 {
		out.WriteString(p.tagBuffer.String())
		p.tagBuffer.Reset()
	}

	if p.inTool {
		out.WriteString(toolOpenTag)
		out.WriteString(p.toolBuffer.String())
		p.toolBuffer.Reset()
		p.inTool = false
	}

	if p.buffer.Len() > 0 {
		out.WriteString(p.buffer.String())
		p.buffer.Reset()
	}

	if out.Len() > 0 {
		regular = &ParsedContent{Content: out.String(), Type: ContentTypeRegular}
	}

	return nil, regular
}

// Reset resets the parser state for a new stream.
func (p *ToolCallParser) Reset() {
	p.buffer.Reset()
	p.tagBuffer.Reset()
	p.toolBuffer.Reset()
	p.inTool = false
}
