// File: internal/report/errorreport_test.go
package report

import (
	"strings"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVersion = "1.2.3"

func TestPreamble(t *testing.T) {
	p := Preamble(testVersion, "http://a.test")

	assert.True(t, strings.HasPrefix(p, "**Error**:"))
	assert.Contains(t, p, "<TODO: Fill in your error>")
	assert.Contains(t, p, "**Version**: v1.2.3")
	assert.True(t, strings.HasSuffix(p, "**URL**: http://a.test"))
}

func TestBuild(t *testing.T) {
	pageURL := "http://a.test"
	preamble := Preamble(testVersion, pageURL)

	t.Run("small input includes every segment", func(t *testing.T) {
		out := Build(Input{Version: testVersion, URL: pageURL, HTML: "<div>x</div>"}, DefaultMaxLength)

		expected := preamble + htmlBlock("<div>x</div>") + cssBlock("")
		assert.Equal(t, expected, out)
		assert.Contains(t, out, "```html\n<div>x</div>\n```")
		// Empty css still yields a well formed fence.
		assert.True(t, strings.HasSuffix(out, "```css\n\n```"))
	})

	t.Run("oversized html returns preamble only", func(t *testing.T) {
		huge := strings.Repeat("a", 3000)
		out := Build(Input{Version: testVersion, URL: pageURL, HTML: huge, CSS: "p{}"}, DefaultMaxLength)
		assert.Equal(t, preamble, out)
	})

	t.Run("oversized css keeps html block", func(t *testing.T) {
		huge := strings.Repeat("b", 3000)
		out := Build(Input{Version: testVersion, URL: pageURL, HTML: "<p>hi</p>", CSS: huge}, DefaultMaxLength)
		assert.Equal(t, preamble+htmlBlock("<p>hi</p>"), out)
		assert.NotContains(t, out, "```css")
	})

	t.Run("preamble alone may exceed the budget", func(t *testing.T) {
		out := Build(Input{Version: testVersion, URL: pageURL, HTML: "<p></p>"}, 10)
		assert.Equal(t, preamble, out)
		assert.Greater(t, Length(out), 10)
	})

	t.Run("decision uses rendered length including fences", func(t *testing.T) {
		html := "<i></i>"
		exact := Length(preamble) + Length(htmlBlock(html))

		assert.Equal(t, preamble+htmlBlock(html), Build(Input{Version: testVersion, URL: pageURL, HTML: html, CSS: "x"}, exact))
		assert.Equal(t, preamble, Build(Input{Version: testVersion, URL: pageURL, HTML: html}, exact-1))
	})

	t.Run("non-positive max length uses the default", func(t *testing.T) {
		in := Input{Version: testVersion, URL: pageURL, HTML: strings.Repeat("c", 1500)}
		assert.Equal(t, Build(in, DefaultMaxLength), Build(in, 0))
	})

	t.Run("length counts characters not bytes", func(t *testing.T) {
		html := strings.Repeat("é", 100)
		budget := Length(preamble) + Length(htmlBlock(html)) + Length(cssBlock(""))
		out := Build(Input{Version: testVersion, URL: pageURL, HTML: html}, budget)
		assert.Equal(t, budget, Length(out))
	})

	t.Run("idempotent", func(t *testing.T) {
		in := Input{Version: testVersion, URL: pageURL, HTML: "<a href='x'>y</a>", CSS: "a { color: red }"}
		assert.Equal(t, Build(in, 500), Build(in, 500))
	})
}

// checkReportInvariants asserts the length and ordering guarantees of Build.
func checkReportInvariants(t *testing.T, in Input, maxLength int) {
	t.Helper()
	out := Build(in, maxLength)
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	pre := Preamble(in.Version, in.URL)
	withHTML := pre + htmlBlock(in.HTML)
	full := withHTML + cssBlock(in.CSS)

	switch out {
	case pre:
		require.Greater(t, Length(withHTML), maxLength, "preamble-only output while the html block fit")
	case withHTML:
		require.LessOrEqual(t, Length(out), maxLength)
		require.Greater(t, Length(full), maxLength)
	case full:
		require.LessOrEqual(t, Length(out), maxLength)
	default:
		t.Fatalf("report is not one of the three permitted prefixes: %q", out)
	}
}

func TestBuild_Invariants(t *testing.T) {
	inputs := []Input{
		{Version: testVersion, URL: "http://a.test", HTML: "", CSS: ""},
		{Version: testVersion, URL: "http://a.test", HTML: strings.Repeat("x", 1800), CSS: "body{}"},
		{Version: testVersion, URL: "http://a.test/" + strings.Repeat("p", 2500), HTML: "<b/>", CSS: "b{}"},
		{Version: "", URL: "", HTML: "```", CSS: "```"},
	}
	for _, in := range inputs {
		for _, max := range []int{-1, 0, 1, 150, 200, 1000, 2000, 5000} {
			checkReportInvariants(t, in, max)
		}
	}
}

// FuzzBuild_Structured checks the report invariants against generated inputs.
func FuzzBuild_Structured(f *testing.F) {
	f.Add([]byte("seed"))
	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)
		var in Input
		if err := consumer.GenerateStruct(&in); err != nil {
			return
		}
		max, err := consumer.GetInt()
		if err != nil {
			return
		}
		checkReportInvariants(t, in, max%4096)
	})
}
