package generate

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	thinkingBlock = regexp.MustCompile(`(?s)<thinking>.*?</thinking>`)
	codeFence     = regexp.MustCompile("```(?:html|HTML)?[ \t]*\r?\n?")
)

// CleanDocument removes reasoning blocks and markdown fences models wrap
// around the document despite being told not to.
func CleanDocument(raw string) string {
	doc := thinkingBlock.ReplaceAllString(raw, "")
	doc = codeFence.ReplaceAllString(doc, "")
	return strings.TrimSpace(doc)
}

// DocumentTitle returns the text of the first <title> element, or "".
func DocumentTitle(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}
	return findTitle(root)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
