// File: internal/transport/form.go
package transport

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
)

// formTemplate posts the payload as soon as the page loads, the same way the
// browser extension's background page did.
var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Opening {{.Host}}</title>
</head>
<body onload="document.forms[0].submit()">
<form method="POST" action="{{.Action}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Open {{.Host}}</button></noscript>
</form>
</body>
</html>
`))

type formView struct {
	Action string
	Host   string
	Fields []Field
}

// RenderForm writes the auto-submitting form for payload to w.
func RenderForm(w io.Writer, payload schemas.PlaygroundPayload) error {
	u, err := url.Parse(payload.URL)
	if err != nil {
		return fmt.Errorf("invalid playground endpoint %q: %w", payload.URL, err)
	}
	view := formView{Action: payload.URL, Host: u.Host, Fields: Fields(payload.Data)}
	if err := formTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render form: %w", err)
	}
	return nil
}

// FormSender renders each payload as an auto-submitting HTML form, either to
// a writer or to a new file per payload.
type FormSender struct {
	results
	out io.Writer
	dir string
}

var _ Sender = (*FormSender)(nil)

// NewFormSender writes forms to out.
func NewFormSender(out, errOut io.Writer, logger *zap.Logger) *FormSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FormSender{
		results: results{errOut: errOut, logger: logger.Named("transport.form")},
		out:     out,
	}
}

// NewFileFormSender writes each form to its own file in dir, which is
// created if needed. dir may start with ~.
func NewFileFormSender(dir string, errOut io.Writer, logger *zap.Logger) (*FormSender, error) {
	if dir == "" {
		dir = "."
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand output dir %q: %w", dir, err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", expanded, err)
	}
	s := NewFormSender(nil, errOut, logger)
	s.dir = expanded
	return s, nil
}

// Send implements schemas.Transport.
func (s *FormSender) Send(ctx context.Context, msg schemas.Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	if msg.Post == nil {
		s.reportError(msg)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.dir == "" {
		s.mu.Lock()
		err := RenderForm(s.out, *msg.Post)
		s.mu.Unlock()
		if err != nil {
			return err
		}
		s.add(msg.Post.URL)
		s.logger.Debug("Wrote playground form.", zap.String("endpoint", msg.Post.URL))
		return nil
	}

	path := filepath.Join(s.dir, "extractor-"+uuid.NewString()+".html")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create form file %s: %w", path, err)
	}
	if err := RenderForm(f, *msg.Post); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close form file %s: %w", path, err)
	}
	s.add(path)
	s.logger.Info("Wrote playground form.", zap.String("path", path), zap.String("endpoint", msg.Post.URL))
	return nil
}
