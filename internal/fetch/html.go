package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockSelectors are elements that end a line of text.
const blockSelectors = "p, div, br, li, tr, h1, h2, h3, h4, h5, h6, blockquote"

// lineBreak marks the end of a block element. It is a private-use rune so that newlines
// in the HTML source stay ordinary whitespace.
const lineBreak = "\uE000"

// HTMLToText converts a rich-text HTML fragment (job description, requirements, benefits)
// into plain text with one line per block element. List items are prefixed with a bullet.
func HTMLToText(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()
	doc.Find("li").PrependHtml("• ")
	doc.Find(blockSelectors).AfterHtml(lineBreak)

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	return cleanWhitespace(strings.ReplaceAll(text, lineBreak, "\n")), nil
}

// cleanWhitespace collapses runs of whitespace within lines and drops empty lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
