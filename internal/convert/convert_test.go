// File: internal/convert/convert_test.go
package convert

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
)

func TestConvert(t *testing.T) {
	c := New()
	snapshot := schemas.InspectedSnapshot{
		URL:  "http://a.test",
		HTML: `<div class="card"><h1>Title</h1></div>`,
		CSS:  ".card { padding: 4px; }",
	}

	result, err := c.Convert(snapshot, "")
	require.NoError(t, err)

	assert.Equal(t, `<div id="container"></div>`, result.HTML)
	assert.Equal(t, snapshot.CSS, result.CSS)
	assert.True(t, strings.HasPrefix(result.JS, "var Component = React.createClass({\n"))
	assert.Contains(t, result.JS, `<div className="card">`)
	assert.Contains(t, result.JS, "<h1>Title</h1>")
	assert.True(t, strings.HasSuffix(result.JS, "ReactDOM.render(<Component />, document.getElementById('container'));\n"))
}

func TestConvert_LoadingText(t *testing.T) {
	result, err := New().Convert(schemas.InspectedSnapshot{HTML: "<p>x</p>"}, "Loading <b>...")
	require.NoError(t, err)
	assert.Equal(t, `<div id="container">Loading &lt;b&gt;...</div>`, result.HTML)
}

func TestConvert_Errors(t *testing.T) {
	_, err := New().Convert(schemas.InspectedSnapshot{HTML: "   "}, "")
	assert.ErrorIs(t, err, ErrNoElement)

	_, err = New().Convert(schemas.InspectedSnapshot{HTML: "just text"}, "")
	assert.ErrorIs(t, err, ErrNoElement)
}

func TestConvert_TableParts(t *testing.T) {
	result, err := New().Convert(schemas.InspectedSnapshot{HTML: "<tr><td>a</td></tr>"}, "")
	require.NoError(t, err)
	assert.Contains(t, result.JS, "<tr>\n")
	assert.Contains(t, result.JS, "<td>a</td>")
}

func TestJSX_TableParts(t *testing.T) {
	c := New()

	tests := []struct {
		name, in, want string
	}{
		{
			name: "cell",
			in:   `<td class="x">a</td>`,
			want: `<td className="x">a</td>`,
		},
		{
			name: "header cell after whitespace",
			in:   "\n  <th>h</th>",
			want: `<th>h</th>`,
		},
		{
			name: "row",
			in:   `<tr><td>a</td></tr>`,
			want: "<tr>\n  <td>a</td>\n</tr>",
		},
		{
			name: "table body",
			in:   `<tbody><tr><td>a</td></tr></tbody>`,
			want: "<tbody>\n  <tr>\n    <td>a</td>\n  </tr>\n</tbody>",
		},
		{
			name: "column",
			in:   `<col span="2">`,
			want: `<col span="2" />`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.JSX(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFragmentContext(t *testing.T) {
	assert.Equal(t, atom.Tr, fragmentContext("<td>a</td>"))
	assert.Equal(t, atom.Tr, fragmentContext("<!-- c --><th>a</th>"))
	assert.Equal(t, atom.Tbody, fragmentContext("<tr></tr>"))
	assert.Equal(t, atom.Table, fragmentContext("<thead></thead>"))
	assert.Equal(t, atom.Colgroup, fragmentContext("<col>"))
	assert.Equal(t, atom.Body, fragmentContext("<div><td>a</td></div>"))
	assert.Equal(t, atom.Body, fragmentContext("text only"))
}

func TestJSX(t *testing.T) {
	c := New()

	tests := []struct {
		name, in, want string
	}{
		{
			name: "attribute renames",
			in:   `<label for="x" class="a" tabindex="1">L</label>`,
			want: `<label htmlFor="x" className="a" tabIndex="1">L</label>`,
		},
		{
			name: "void elements self close",
			in:   `<img src="a.png"><br>`,
			want: "<div>\n  <img src=\"a.png\" />\n  <br />\n</div>",
		},
		{
			name: "inline style becomes an object",
			in:   `<p style="margin-top: 2px; -webkit-transition: none; -ms-flex: 1">s</p>`,
			want: `<p style={{marginTop: "2px", WebkitTransition: "none", msFlex: "1"}}>s</p>`,
		},
		{
			name: "event handlers are dropped",
			in:   `<button onclick="go()" disabled>Go</button>`,
			want: `<button disabled>Go</button>`,
		},
		{
			name: "braces in text are escaped",
			in:   `<code>{a}</code>`,
			want: `<code>{'{'}a{'}'}</code>`,
		},
		{
			name: "comments become JSX comments",
			in:   `<div><!-- note --><span>x</span></div>`,
			want: "<div>\n  {/* note */}\n  <span>x</span>\n</div>",
		},
		{
			name: "scripts are removed",
			in:   `<div><script>alert(1)</script><i>k</i></div>`,
			want: "<div>\n  <i>k</i>\n</div>",
		},
		{
			name: "spaces between inline siblings survive",
			in:   `<p>Hello <b>big</b> world</p>`,
			want: "<p>\n  Hello{' '}\n  <b>big</b>\n  {' '}world\n</p>",
		},
		{
			name: "data and aria attributes are kept",
			in:   `<div data-id="7" aria-label="x"></div>`,
			want: `<div data-id="7" aria-label="x" />`,
		},
		{
			name: "quotes in values use an expression",
			in:   `<a title='say "hi"'>t</a>`,
			want: `<a title={"say \"hi\""}>t</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.JSX(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStyleKey(t *testing.T) {
	assert.Equal(t, "backgroundColor", styleKey("background-color"))
	assert.Equal(t, "MozBoxSizing", styleKey("-moz-box-sizing"))
	assert.Equal(t, "msTransform", styleKey("-ms-transform"))
	assert.Equal(t, `"--brand"`, styleKey("--brand"))
	assert.Equal(t, "", styleKey("-"))
}
