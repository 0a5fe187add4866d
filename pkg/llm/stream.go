package llm

// ContentType separates model reasoning from the answer in a stream.
type ContentType string

const (
	ContentTypeMessage  ContentType = "message"
	ContentTypeThinking ContentType = "thinking"
)

// StreamChunk is one piece of a streamed completion.
type StreamChunk struct {
	Error    error
	Role     string
	Content  string
	Type     ContentType
	Finished bool
}

func (c *StreamChunk) IsError() bool {
	return c.Error != nil
}

// IsThinking reports whether the chunk carries reasoning rather than answer
// content.
func (c *StreamChunk) IsThinking() bool {
	return c.Type == ContentTypeThinking
}
