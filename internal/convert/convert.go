// File: internal/convert/convert.go
package convert

import (
	"errors"
	"fmt"
	"html"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
)

// ErrNoElement is returned when the markup contains nothing renderable.
var ErrNoElement = errors.New("markup contains no element to convert")

// MountID is the id of the element the generated component renders into.
const MountID = "container"

// DefaultComponentName names the generated React class.
const DefaultComponentName = "Component"

// ReactConverter turns captured markup into a React 0.14 component rendered
// into a mount point.
type ReactConverter struct {
	ComponentName string
	Indent        string
}

var _ schemas.Converter = (*ReactConverter)(nil)

// New returns a converter with the default component name and indentation.
func New() *ReactConverter {
	return &ReactConverter{ComponentName: DefaultComponentName, Indent: "  "}
}

// Convert implements schemas.Converter. The css is passed through unchanged.
func (c *ReactConverter) Convert(snapshot schemas.InspectedSnapshot, loadingText string) (schemas.ConversionResult, error) {
	jsx, err := c.JSX(snapshot.HTML)
	if err != nil {
		return schemas.ConversionResult{}, err
	}

	name := c.ComponentName
	if name == "" {
		name = DefaultComponentName
	}

	return schemas.ConversionResult{
		HTML: `<div id="` + MountID + `">` + html.EscapeString(loadingText) + `</div>`,
		CSS:  snapshot.CSS,
		JS:   c.component(name, jsx),
	}, nil
}

func (c *ReactConverter) component(name, jsx string) string {
	indent := c.indent()
	body := indentLines(jsx, strings.Repeat(indent, 3))

	var b strings.Builder
	b.WriteString("var " + name + " = React.createClass({\n")
	b.WriteString(indent + "render: function() {\n")
	b.WriteString(indent + indent + "return (\n")
	b.WriteString(body + "\n")
	b.WriteString(indent + indent + ");\n")
	b.WriteString(indent + "}\n")
	b.WriteString("});\n\n")
	b.WriteString("ReactDOM.render(<" + name + " />, document.getElementById('" + MountID + "'));\n")
	return b.String()
}

func (c *ReactConverter) indent() string {
	if c.Indent == "" {
		return "  "
	}
	return c.Indent
}

// JSX translates an HTML fragment into a single JSX expression. Several root
// nodes are wrapped in a <div>.
func (c *ReactConverter) JSX(markup string) (string, error) {
	ctxAtom := fragmentContext(markup)
	parent := &nethtml.Node{Type: nethtml.ElementNode, Data: ctxAtom.String(), DataAtom: ctxAtom}
	nodes, err := nethtml.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return "", fmt.Errorf("failed to parse markup: %w", err)
	}

	var roots []*nethtml.Node
	for _, n := range nodes {
		if renderable(n) {
			roots = append(roots, n)
		}
	}
	if !hasElement(roots) {
		return "", ErrNoElement
	}

	w := &jsxWriter{indent: c.indent()}
	if len(roots) == 1 && roots[0].Type == nethtml.ElementNode {
		w.node(roots[0], 0)
	} else {
		w.line(0, "<div>")
		w.nodes(roots, 1)
		w.line(0, "</div>")
	}
	return strings.TrimRight(w.b.String(), "\n"), nil
}

// fragmentContext picks the element a fragment is parsed inside. Table parts
// are dropped by the parser in a <body> context, so an inspected <tr> or <td>
// gets the table element that may contain it.
func fragmentContext(markup string) atom.Atom {
	z := nethtml.NewTokenizer(strings.NewReader(markup))
	for {
		switch z.Next() {
		case nethtml.ErrorToken:
			return atom.Body
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			name, _ := z.TagName()
			switch atom.Lookup(name) {
			case atom.Td, atom.Th:
				return atom.Tr
			case atom.Tr:
				return atom.Tbody
			case atom.Tbody, atom.Thead, atom.Tfoot, atom.Caption, atom.Colgroup:
				return atom.Table
			case atom.Col:
				return atom.Colgroup
			}
			return atom.Body
		}
	}
}

func hasElement(nodes []*nethtml.Node) bool {
	for _, n := range nodes {
		if n.Type == nethtml.ElementNode {
			return true
		}
	}
	return false
}

func renderable(n *nethtml.Node) bool {
	switch n.Type {
	case nethtml.ElementNode:
		return n.DataAtom != atom.Script
	case nethtml.TextNode:
		return collapseSpace(n.Data) != ""
	case nethtml.CommentNode:
		return true
	}
	return false
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
