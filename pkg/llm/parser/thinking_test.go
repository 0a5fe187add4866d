package parser

import (
	"testing"

	"github.com/entrhq/agentbrowser/pkg/llm"
	"github.com/stretchr/testify/assert"
)

// feed runs chunks through a fresh parser and returns the accumulated
// thinking and message text.
func feed(chunks ...string) (thinking, message string, inThinking bool) {
	p := NewThinkingParser()
	collect := func(th, msg *llm.StreamChunk) {
		if th != nil {
			thinking += th.Content
		}
		if msg != nil {
			message += msg.Content
		}
	}
	for _, c := range chunks {
		collect(p.Parse(c))
	}
	inThinking = p.IsInThinking()
	collect(p.Flush())
	return thinking, message, inThinking
}

func TestThinkingParser(t *testing.T) {
	tests := []struct {
		name     string
		chunks   []string
		thinking string
		message  string
	}{
		{
			name:    "plain html passes through",
			chunks:  []string{"<!DOCTYPE html><html><body><p>hi</p></body></html>"},
			message: "<!DOCTYPE html><html><body><p>hi</p></body></html>",
		},
		{
			name:     "thinking block removed",
			chunks:   []string{"<thinking>plan the board</thinking><html></html>"},
			thinking: "plan the board",
			message:  "<html></html>",
		},
		{
			name:     "tags split across chunks",
			chunks:   []string{"<thin", "king>a", "b</th", "inking>", "<di", "v>x</div>"},
			thinking: "ab",
			message:  "<div>x</div>",
		},
		{
			name:     "comparison operators inside thinking",
			chunks:   []string{"<thinking>", "if x>3 and i<10 then", "</thinking>", "<p>ok</p>"},
			thinking: "if x>3 and i<10 then",
			message:  "<p>ok</p>",
		},
		{
			name:    "script with less-than",
			chunks:  []string{"<script>for (let i=0;i<3;i++) {}</script>"},
			message: "<script>for (let i=0;i<3;i++) {}</script>",
		},
		{
			name:    "unterminated tag flushed as text",
			chunks:  []string{"a <b"},
			message: "a <b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thinking, message, inThinking := feed(tt.chunks...)
			assert.Equal(t, tt.thinking, thinking)
			assert.Equal(t, tt.message, message)
			assert.False(t, inThinking)
		})
	}
}

func TestThinkingParser_ChunkTypes(t *testing.T) {
	p := NewThinkingParser()
	th, msg := p.Parse("<thinking>x</thinking>y")
	if assert.NotNil(t, th) && assert.NotNil(t, msg) {
		assert.True(t, th.IsThinking())
		assert.Equal(t, llm.ContentTypeMessage, msg.Type)
	}

	th, msg = p.Parse("")
	assert.Nil(t, th)
	assert.Nil(t, msg)
}

func TestThinkingParser_Reset(t *testing.T) {
	p := NewThinkingParser()
	p.Parse("<thinking>half")
	assert.True(t, p.IsInThinking())

	p.Reset()
	assert.False(t, p.IsInThinking())
	th, msg := p.Parse("<p>")
	assert.Nil(t, th)
	assert.Equal(t, "<p>", msg.Content)
}
