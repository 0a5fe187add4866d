// Package parser splits streamed model output into reasoning and answer.
package parser

import (
	"strings"

	"github.com/entrhq/agentbrowser/pkg/llm"
)

const (
	openThinking  = "<thinking>"
	closeThinking = "</thinking>"
)

// ThinkingParser separates <thinking> blocks from answer content across
// stream chunks. A tag may be split over several chunks. Markup in the
// answer (generated HTML) passes through untouched.
type ThinkingParser struct {
	text       strings.Builder
	pending    strings.Builder // a possible tag, from '<' up to '>'
	inThinking bool
	inTag      bool
}

func NewThinkingParser() *ThinkingParser {
	return &ThinkingParser{}
}

// Parse consumes one chunk. It returns at most one thinking chunk and one
// message chunk holding what could be classified so far.
func (p *ThinkingParser) Parse(content string) (thinking, message *llm.StreamChunk) {
	var out splitOutput
	for _, ch := range content {
		switch {
		case ch == '<':
			// an earlier '<' without '>' was just text
			out.add(p.inThinking, p.takePending())
			out.add(p.inThinking, p.takeText())
			p.inTag = true
			p.pending.WriteRune(ch)
		case ch == '>' && p.inTag:
			p.pending.WriteRune(ch)
			p.inTag = false
			tag := p.takePending()
			switch tag {
			case openThinking:
				p.inThinking = true
			case closeThinking:
				p.inThinking = false
			default:
				out.add(p.inThinking, tag)
			}
		case p.inTag:
			p.pending.WriteRune(ch)
		default:
			p.text.WriteRune(ch)
		}
	}
	out.add(p.inThinking, p.takeText())
	return out.chunks()
}

// Flush returns anything still buffered, including an unterminated tag.
// Call it once the stream has ended.
func (p *ThinkingParser) Flush() (thinking, message *llm.StreamChunk) {
	var out splitOutput
	out.add(p.inThinking, p.takePending())
	p.inTag = false
	out.add(p.inThinking, p.takeText())
	return out.chunks()
}

// IsInThinking reports whether the parser is inside a thinking block.
func (p *ThinkingParser) IsInThinking() bool {
	return p.inThinking
}

func (p *ThinkingParser) Reset() {
	p.text.Reset()
	p.pending.Reset()
	p.inThinking = false
	p.inTag = false
}

func (p *ThinkingParser) takeText() string {
	s := p.text.String()
	p.text.Reset()
	return s
}

func (p *ThinkingParser) takePending() string {
	s := p.pending.String()
	p.pending.Reset()
	return s
}

type splitOutput struct {
	thinking strings.Builder
	message  strings.Builder
}

func (o *splitOutput) add(thinking bool, s string) {
	if thinking {
		o.thinking.WriteString(s)
		return
	}
	o.message.WriteString(s)
}

func (o *splitOutput) chunks() (thinking, message *llm.StreamChunk) {
	if o.thinking.Len() > 0 {
		thinking = &llm.StreamChunk{Content: o.thinking.String(), Type: llm.ContentTypeThinking}
	}
	if o.message.Len() > 0 {
		message = &llm.StreamChunk{Content: o.message.String(), Type: llm.ContentTypeMessage}
	}
	return thinking, message
}
