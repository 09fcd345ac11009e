package llm

// ContentType classifies the content carried by a StreamChunk.
type ContentType string

const (
	// ContentTypeThinking marks content inside <thinking> tags.
	ContentTypeThinking ContentType = "thinking"

	// ContentTypeMessage marks regular response content.
	ContentTypeMessage ContentType = "message"
)

// StreamChunk is a single unit of streamed LLM output.
//
// Providers emit chunks on the channel returned by StreamCompletion. A chunk
// carries either a content delta (Content, with Type classifying it), a
// terminal marker (Finished), or a stream-time error (Error).
type StreamChunk struct {
	// Content is the text delta for this chunk.
	Content string

	// Type classifies the content (thinking vs message).
	Type ContentType

	// Role is the message role, set on the first chunk of a response.
	Role string

	// Finished is true on the final chunk of a completed stream.
	Finished bool

	// Error is set when the stream failed mid-flight.
	Error error
}

// IsError returns true if this chunk carries a stream error.
func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}

// IsThinking returns true if this chunk carries thinking content.
func (c *StreamChunk) IsThinking() bool {
	return c.Type == ContentTypeThinking
}

// IsMessage returns true if this chunk carries regular message content.
func (c *StreamChunk) IsMessage() bool {
	return c.Type == ContentTypeMessage
}
