// File: internal/report/issue_test.go
package report

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
)

func TestEncodeURIComponent(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"abcXYZ019", "abcXYZ019"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"a b", "a%20b"},
		{"a+b&c=d", "a%2Bb%26c%3Dd"},
		{"**URL**: http://a.test/?x=1", "**URL**%3A%20http%3A%2F%2Fa.test%2F%3Fx%3D1"},
		{"\n", "%0A"},
		{"é", "%C3%A9"},
		{"#/", "%23%2F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeURIComponent(tt.in), "input %q", tt.in)
	}
}

func TestIssueURL(t *testing.T) {
	issue := Issue{
		TrackerURL: "https://github.com/owner/repo/issues/",
		Body:       "line one\nline 'two'",
		Version:    "0.4.0",
		PageURL:    "http://a.test/page?x=1",
	}

	link := issue.URL()
	assert.Contains(t, link, "https://github.com/owner/repo/issues/new?title=Error%20after%20extracting&body=")
	assert.Contains(t, link, "line%20one%0Aline%20'two'")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, DefaultIssueTitle, q.Get("title"))
	assert.Equal(t, "line one\nline 'two'", q.Get("body"))
	assert.Equal(t, "0.4.0", q.Get("version"))
	assert.Equal(t, "http://a.test/page?x=1", q.Get("url"))
}

func TestIssueFor(t *testing.T) {
	cfg := config.ExtractorConfig{
		Version:         "0.4.0",
		BugTrackerURL:   "https://github.com/owner/repo/issues",
		IssueTitle:      "Broken",
		ReportMaxLength: DefaultMaxLength,
	}
	snap := schemas.InspectedSnapshot{URL: "http://a.test", HTML: "<p>x</p>", CSS: "p{}"}

	issue := IssueFor(cfg, snap)
	assert.Equal(t, Build(Input{Version: "0.4.0", URL: "http://a.test", HTML: "<p>x</p>", CSS: "p{}"}, DefaultMaxLength), issue.Body)
	assert.Equal(t, "Broken", issue.Title)
	assert.Equal(t, "0.4.0", issue.Version)
	assert.Equal(t, "http://a.test", issue.PageURL)
	assert.Equal(t, cfg.BugTrackerURL, issue.TrackerURL)

	t.Run("length ceiling applies", func(t *testing.T) {
		cfg.ReportMaxLength = 10
		issue := IssueFor(cfg, snap)
		assert.Equal(t, Preamble("0.4.0", "http://a.test"), issue.Body)
	})
}
