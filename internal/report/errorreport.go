// File: internal/report/errorreport.go
package report

import (
	"unicode/utf8"
)

// DefaultMaxLength bounds the error report so the issue URL it is embedded in
// stays within what browsers and the tracker accept.
const DefaultMaxLength = 2000

// Input is the raw, pre-conversion material an error report is built from.
type Input struct {
	Version string
	URL     string
	HTML    string
	CSS     string
}

// Preamble renders the unconditional first segment of a report. It is always
// present, even when it alone exceeds the length budget.
func Preamble(version, pageURL string) string {
	return "**Error**:\n\n" +
		"```\n<TODO: Fill in your error>\n```\n\n" +
		"**Version**: v" + version + "\n\n" +
		"**URL**: " + pageURL
}

func htmlBlock(html string) string {
	return "\n\n**Extracting**:\n\n```html\n" + html + "\n```"
}

func cssBlock(css string) string {
	return "\n```css\n" + css + "\n```"
}

// Length measures report segments in characters, not bytes.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Build progressively assembles the markdown error report, keeping it under
// maxLength. Segments are added in order (preamble, html, css) and the first
// one that would overflow stops the build, so the css block never appears
// without the html block. A non-positive maxLength selects DefaultMaxLength.
func Build(in Input, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	out := Preamble(in.Version, in.URL)

	htmlOut := htmlBlock(in.HTML)
	if Length(out)+Length(htmlOut) > maxLength {
		return out
	}
	out += htmlOut

	cssOut := cssBlock(in.CSS)
	if Length(out)+Length(cssOut) > maxLength {
		return out
	}
	return out + cssOut
}
