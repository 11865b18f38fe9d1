// File: internal/prettyprint/prettyprint.go
package prettyprint

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Lines formats markup for display, one tag or text run per line, indented
// by depth. Raw tokens are kept as written; escaping for display is the
// caller's job.
func Lines(markup string) []string {
	return LinesIndent(markup, "  ")
}

// LinesIndent is Lines with a custom indentation unit.
func LinesIndent(markup, indent string) []string {
	var lines []string
	depth := 0
	z := html.NewTokenizer(strings.NewReader(markup))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				// Keep whatever could not be tokenized rather than losing it.
				if rest := strings.TrimSpace(string(z.Raw())); rest != "" {
					lines = append(lines, strings.Repeat(indent, depth)+rest)
				}
			}
			return lines

		case html.StartTagToken:
			// Raw must be read first: TagName lower-cases the buffer in place.
			raw := string(z.Raw())
			name, _ := z.TagName()
			lines = append(lines, strings.Repeat(indent, depth)+raw)
			if !voidElements[string(name)] {
				depth++
			}

		case html.EndTagToken:
			if depth > 0 {
				depth--
			}
			lines = append(lines, strings.Repeat(indent, depth)+string(z.Raw()))

		case html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			lines = append(lines, strings.Repeat(indent, depth)+string(z.Raw()))

		case html.TextToken:
			text := strings.Join(strings.Fields(string(z.Raw())), " ")
			if text != "" {
				lines = append(lines, strings.Repeat(indent, depth)+text)
			}
		}
	}
}
