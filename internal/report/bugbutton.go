// File: internal/report/bugbutton.go
package report

import (
	"strings"
)

const bugButtonLabel = "Not working?"

// BugButton returns an inline HTML button that opens target in a new browsing
// context. Single quotes in target are backslash-escaped so the inline handler
// stays valid; nothing else is escaped, so dynamic query segments must already
// be encoded (see EncodeURIComponent).
func BugButton(target string) string {
	escaped := strings.ReplaceAll(target, "'", `\'`)
	return `<button type="button" onclick="window.open('` + escaped + `', '_blank')"` +
		` style="position:absolute; right: 20px; bottom: 20px;">` + bugButtonLabel + `</button>`
}
