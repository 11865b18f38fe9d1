// File: internal/convert/jsx.go
package convert

import (
	"strings"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	nethtml "golang.org/x/net/html"
)

var jsJSON = jsoniter.Config{EscapeHTML: false}.Froze()

// attrNames maps HTML attribute names to their React prop names.
var attrNames = map[string]string{
	"class":             "className",
	"for":               "htmlFor",
	"accept-charset":    "acceptCharset",
	"accesskey":         "accessKey",
	"allowfullscreen":   "allowFullScreen",
	"autocomplete":      "autoComplete",
	"autofocus":         "autoFocus",
	"autoplay":          "autoPlay",
	"cellpadding":       "cellPadding",
	"cellspacing":       "cellSpacing",
	"charset":           "charSet",
	"colspan":           "colSpan",
	"contenteditable":   "contentEditable",
	"contextmenu":       "contextMenu",
	"crossorigin":       "crossOrigin",
	"datetime":          "dateTime",
	"enctype":           "encType",
	"formaction":        "formAction",
	"frameborder":       "frameBorder",
	"http-equiv":        "httpEquiv",
	"marginheight":      "marginHeight",
	"marginwidth":       "marginWidth",
	"maxlength":         "maxLength",
	"minlength":         "minLength",
	"novalidate":        "noValidate",
	"readonly":          "readOnly",
	"rowspan":           "rowSpan",
	"spellcheck":        "spellCheck",
	"srcdoc":            "srcDoc",
	"srcset":            "srcSet",
	"tabindex":          "tabIndex",
	"usemap":            "useMap",
	"viewbox":           "viewBox",
	"xlink:href":        "xlinkHref",
	"stroke-width":      "strokeWidth",
	"stroke-linecap":    "strokeLinecap",
	"stroke-linejoin":   "strokeLinejoin",
	"fill-rule":         "fillRule",
	"clip-rule":         "clipRule",
	"stroke-dasharray":  "strokeDasharray",
	"stroke-dashoffset": "strokeDashoffset",
}

// voidElements never have children and are written self-closing.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

type jsxWriter struct {
	b      strings.Builder
	indent string
}

func (w *jsxWriter) line(depth int, s string) {
	w.b.WriteString(strings.Repeat(w.indent, depth))
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

// nodes writes siblings, keeping the spaces between inline text and
// elements that JSX would otherwise strip at line breaks.
func (w *jsxWriter) nodes(children []*nethtml.Node, depth int) {
	for i, c := range children {
		if c.Type != nethtml.TextNode {
			w.node(c, depth)
			continue
		}
		text := escapeText(collapseSpace(c.Data))
		if i > 0 && startsWithSpace(c.Data) {
			text = "{' '}" + text
		}
		if i < len(children)-1 && endsWithSpace(c.Data) {
			text += "{' '}"
		}
		w.line(depth, text)
	}
}

func (w *jsxWriter) node(n *nethtml.Node, depth int) {
	switch n.Type {
	case nethtml.TextNode:
		if text := collapseSpace(n.Data); text != "" {
			w.line(depth, escapeText(text))
		}
	case nethtml.CommentNode:
		w.line(depth, "{/*"+strings.ReplaceAll(n.Data, "*/", "* /")+"*/}")
	case nethtml.ElementNode:
		w.element(n, depth)
	}
}

func (w *jsxWriter) element(n *nethtml.Node, depth int) {
	open := "<" + n.Data + attributes(n.Attr)

	var children []*nethtml.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if renderable(c) {
			children = append(children, c)
		}
	}

	if voidElements[n.Data] || len(children) == 0 {
		w.line(depth, open+" />")
		return
	}

	// Keep a lone short text child on the element's own line.
	if len(children) == 1 && children[0].Type == nethtml.TextNode {
		w.line(depth, open+">"+escapeText(collapseSpace(children[0].Data))+"</"+n.Data+">")
		return
	}

	w.line(depth, open+">")
	w.nodes(children, depth+1)
	w.line(depth, "</"+n.Data+">")
}

func attributes(attrs []nethtml.Attribute) string {
	var b strings.Builder
	for _, a := range attrs {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		// Inline handlers are strings in HTML but functions in React.
		if strings.HasPrefix(key, "on") {
			continue
		}

		name := propName(key)
		b.WriteByte(' ')
		b.WriteString(name)

		switch {
		case key == "style":
			b.WriteString("={")
			b.WriteString(styleObject(a.Val))
			b.WriteString("}")
		case a.Val == "" && isBooleanAttr(key):
			// Bare boolean attribute.
		default:
			b.WriteString("=")
			b.WriteString(attrValue(a.Val))
		}
	}
	return b.String()
}

func propName(key string) string {
	if strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-") {
		return key
	}
	if name, ok := attrNames[key]; ok {
		return name
	}
	return key
}

var booleanAttrs = map[string]bool{
	"allowfullscreen": true, "async": true, "autofocus": true, "autoplay": true,
	"checked": true, "controls": true, "default": true, "defer": true,
	"disabled": true, "formnovalidate": true, "hidden": true, "loop": true,
	"multiple": true, "muted": true, "novalidate": true, "open": true,
	"readonly": true, "required": true, "reversed": true, "selected": true,
}

func isBooleanAttr(key string) bool { return booleanAttrs[key] }

func attrValue(v string) string {
	if !strings.ContainsAny(v, "\"{}") && !strings.Contains(v, "\n") {
		return `"` + v + `"`
	}
	return "{" + jsString(v) + "}"
}

// styleObject converts an inline CSS declaration list to a JS object literal
// with camelCased keys, e.g. "margin-top: 2px" -> {marginTop: "2px"}.
func styleObject(css string) string {
	type decl struct{ key, val string }
	var decls []decl
	for _, part := range strings.Split(css, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		decls = append(decls, decl{styleKey(k), v})
	}

	if len(decls) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.key+": "+jsString(d.val))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func styleKey(prop string) string {
	prop = strings.ToLower(prop)
	if strings.HasPrefix(prop, "--") {
		return jsString(prop)
	}
	// -ms- is the one vendor prefix React keeps lowercase.
	if strings.HasPrefix(prop, "-ms-") {
		prop = prop[1:]
	} else if len(prop) > 1 && prop[0] == '-' {
		prop = prop[1:]
		prop = strings.ToUpper(prop[:1]) + prop[1:]
	}
	segments := strings.Split(prop, "-")
	for i := 1; i < len(segments); i++ {
		if segments[i] != "" {
			segments[i] = strings.ToUpper(segments[i][:1]) + segments[i][1:]
		}
	}
	return strings.Join(segments, "")
}

func jsString(s string) string {
	out, err := jsJSON.MarshalToString(s)
	if err != nil {
		return `""`
	}
	return out
}

// escapeText protects characters that JSX would otherwise interpret.
func escapeText(s string) string {
	r := strings.NewReplacer(
		"{", "{'{'}",
		"}", "{'}'}",
		"<", "{'<'}",
		">", "{'>'}",
	)
	return r.Replace(s)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func startsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[0]))
}

func endsWithSpace(s string) bool {
	return s != "" && unicode.IsSpace(rune(s[len(s)-1]))
}
