// File: internal/panel/panel.go
// Description: The extractor view. Rendering is a pure function of Props and
// State; the host decides when State is recomputed by calling Changed.

package panel

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"strings"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/playground"
	"github.com/xkilldash9x/extractor-cli/internal/prettyprint"
)

// Props are owned by the host and replaced wholesale on every update.
type Props struct {
	Inspected schemas.InspectedSnapshot
	IsLoading bool
}

// State is derived from Props.
type State struct {
	HasInspected    bool
	PrettyInspected template.HTML
}

// NewState derives the state for props.
func NewState(props Props) State {
	return State{
		HasInspected:    !props.Inspected.IsEmpty(),
		PrettyInspected: prepareForRender(props.Inspected.HTML),
	}
}

// Changed reports whether the inspected element differs between two props.
// IsLoading alone does not count.
func Changed(old, updated Props) bool {
	return old.Inspected != updated.Inspected
}

// Update returns the state to use after props move from old to updated. The
// previous state is kept when nothing inspected changed.
func Update(old Props, state State, updated Props) State {
	if !Changed(old, updated) {
		return state
	}
	return NewState(updated)
}

// prepareForRender escapes each pretty-printed line and joins them with
// explicit line breaks.
func prepareForRender(markup string) template.HTML {
	lines := prettyprint.Lines(markup)
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br />"))
}

var panelTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Extractor</title>
</head>
<body>
<form method="POST" action="/inspect">
<input type="url" name="url" placeholder="Page URL" value="{{.Props.Inspected.URL}}" required>
<input type="text" name="selector" placeholder="CSS selector">
<button type="submit">Inspect</button>
</form>
<div>
<p>Inspected Element:</p>
<pre><code>
{{- if .State.HasInspected}}{{.State.PrettyInspected}}
{{- else if .Props.IsLoading}}<i>Loading...</i>
{{- else}}<i>none</i>
{{- end -}}
</code></pre>
<p>Generate and upload to...</p>
{{- range .Targets}}
<form method="POST" action="/trigger/{{.Name}}" target="_blank">
<button type="submit"{{if not $.State.HasInspected}} disabled{{end}}>{{.Label}}</button>
</form>
{{- end}}
</div>
</body>
</html>
`))

type targetView struct {
	Name  string
	Label string
}

var targetLabels = map[playground.Target]string{
	playground.CodePen:  "Codepen",
	playground.JSFiddle: "JSFiddle",
}

// Render writes the panel for props and state.
func Render(w io.Writer, props Props, state State) error {
	targets := make([]targetView, 0, len(playground.Targets))
	for _, t := range playground.Targets {
		targets = append(targets, targetView{Name: t.String(), Label: targetLabels[t]})
	}
	err := panelTemplate.Execute(w, struct {
		Props   Props
		State   State
		Targets []targetView
	}{props, state, targets})
	if err != nil {
		return fmt.Errorf("failed to render panel: %w", err)
	}
	return nil
}
