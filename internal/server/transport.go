// File: internal/server/transport.go
package server

import (
	"context"
	"fmt"
	"html/template"
	"net/http"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/transport"
)

type responseKey struct{}

// withResponse attaches the response writer a ResponseTransport writes to.
func withResponse(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, responseKey{}, w)
}

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Extractor error</title></head>
<body>
<p>Extraction failed.</p>
<pre>{{.}}</pre>
<p><a href="/">Back</a></p>
</body>
</html>
`))

// ResponseTransport delivers pipeline messages as the HTTP response of the
// request that triggered them: an auto-submitting form for payloads, an
// error page for failures.
type ResponseTransport struct{}

var _ schemas.Transport = ResponseTransport{}

// Send implements schemas.Transport.
func (ResponseTransport) Send(ctx context.Context, msg schemas.Message) error {
	w, ok := ctx.Value(responseKey{}).(http.ResponseWriter)
	if !ok {
		return fmt.Errorf("no response writer bound to context")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if msg.Post != nil {
		w.WriteHeader(http.StatusOK)
		return transport.RenderForm(w, *msg.Post)
	}
	w.WriteHeader(http.StatusBadGateway)
	if err := errorPage.Execute(w, msg.Message); err != nil {
		return fmt.Errorf("failed to render error page: %w", err)
	}
	return nil
}
