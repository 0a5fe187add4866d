package tui

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/charmbracelet/lipgloss"
)

// sourcePalette maps token categories to styles for the source viewer.
var sourcePalette = struct {
	text, tag, attribute, str, comment, keyword, number, punctuation, err lipgloss.Style
}{
	text:        lipgloss.NewStyle().Foreground(brightWhite),
	tag:         lipgloss.NewStyle().Foreground(salmonPink).Bold(true),
	attribute:   lipgloss.NewStyle().Foreground(coralPink),
	str:         lipgloss.NewStyle().Foreground(mintGreen),
	comment:     lipgloss.NewStyle().Foreground(mutedGray).Italic(true),
	keyword:     lipgloss.NewStyle().Foreground(salmonPink),
	number:      lipgloss.NewStyle().Foreground(coralPink),
	punctuation: lipgloss.NewStyle().Foreground(mutedGray),
	err:         lipgloss.NewStyle().Foreground(salmonPink).Underline(true),
}

// highlightHTML renders an HTML document with syntax colors. Embedded
// scripts and styles are handled by the HTML lexer's delegates.
func highlightHTML(doc string) string {
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iter, err := lexer.Tokenise(nil, doc)
	if err != nil {
		return doc
	}

	var b strings.Builder
	for token := iter(); token != chroma.EOF; token = iter() {
		if token.Value == "" {
			continue
		}
		style := styleForToken(token.Type)
		// Styles must not span lines or the viewport loses line boundaries.
		parts := strings.Split(token.Value, "\n")
		for i, part := range parts {
			if part != "" {
				b.WriteString(style.Render(part))
			}
			if i < len(parts)-1 {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

func styleForToken(ttype chroma.TokenType) lipgloss.Style {
	if ttype == chroma.Error {
		return sourcePalette.err
	}
	switch {
	case ttype.InCategory(chroma.Comment):
		return sourcePalette.comment
	case ttype == chroma.NameTag:
		return sourcePalette.tag
	case ttype == chroma.NameAttribute:
		return sourcePalette.attribute
	case ttype.InCategory(chroma.Keyword):
		return sourcePalette.keyword
	case ttype.InCategory(chroma.LiteralString):
		return sourcePalette.str
	case ttype.InCategory(chroma.LiteralNumber):
		return sourcePalette.number
	case ttype.InCategory(chroma.Punctuation), ttype.InCategory(chroma.Operator):
		return sourcePalette.punctuation
	default:
		return sourcePalette.text
	}
}
