// File: internal/report/issue.go
package report

import (
	"strings"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
)

// DefaultIssueTitle is the prefilled title of a conversion bug report.
const DefaultIssueTitle = "Error after extracting"

// Issue describes a prefilled issue in the bug tracker.
type Issue struct {
	// TrackerURL is the issues root, e.g. https://github.com/owner/repo/issues.
	TrackerURL string
	Title      string
	Body       string
	Version    string
	PageURL    string
}

// URL builds the "new issue" link. Every query value is encoded the way
// JavaScript's encodeURIComponent does it, which leaves single quotes intact;
// BugButton takes care of those.
func (i Issue) URL() string {
	title := i.Title
	if title == "" {
		title = DefaultIssueTitle
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(i.TrackerURL, "/"))
	b.WriteString("/new?title=")
	b.WriteString(EncodeURIComponent(title))
	b.WriteString("&body=")
	b.WriteString(EncodeURIComponent(i.Body))
	if i.Version != "" {
		b.WriteString("&version=")
		b.WriteString(EncodeURIComponent(i.Version))
	}
	if i.PageURL != "" {
		b.WriteString("&url=")
		b.WriteString(EncodeURIComponent(i.PageURL))
	}
	return b.String()
}

// IssueFor builds the prefilled issue for a captured element. The body is
// the error report of the raw capture, never of converted output.
func IssueFor(cfg config.ExtractorConfig, snapshot schemas.InspectedSnapshot) Issue {
	body := Build(Input{
		Version: cfg.Version,
		URL:     snapshot.URL,
		HTML:    snapshot.HTML,
		CSS:     snapshot.CSS,
	}, cfg.ReportMaxLength)
	return Issue{
		TrackerURL: cfg.BugTrackerURL,
		Title:      cfg.IssueTitle,
		Body:       body,
		Version:    cfg.Version,
		PageURL:    snapshot.URL,
	}
}

const upperhex = "0123456789ABCDEF"

// EncodeURIComponent percent-encodes every byte except the unreserved set
// A-Z a-z 0-9 - _ . ! ~ * ' ( ), matching the browser function of the same
// name. url.QueryEscape differs (space becomes '+', '!*'()' are escaped).
func EncodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
