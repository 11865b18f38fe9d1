// File: internal/transport/transport.go
package transport

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/config"
)

// Sender is a host transport that remembers where each payload went: the
// written form file for FormSender, the created playground for PostSender.
type Sender interface {
	schemas.Transport
	Results() []string
}

// New selects a sender from cfg. Error notifications go to errOut. In form
// mode an output_dir of "-" writes the form to out instead of a file.
func New(cfg config.TransportConfig, out, errOut io.Writer, logger *zap.Logger) (Sender, error) {
	switch cfg.Mode {
	case config.TransportForm, "":
		if cfg.OutputDir == "-" {
			return NewFormSender(out, errOut, logger), nil
		}
		return NewFileFormSender(cfg.OutputDir, errOut, logger)
	case config.TransportPost:
		return NewPostSender(cfg.Timeout, errOut, logger), nil
	default:
		return nil, fmt.Errorf("unsupported transport mode: %s", cfg.Mode)
	}
}

// Field is one form field of a playground payload.
type Field struct {
	Name  string
	Value string
}

// Fields flattens payload data into form fields sorted by name. Non-string
// values (JSFiddle's panel_js) use their default formatting.
func Fields(data map[string]any) []Field {
	fields := make([]Field, 0, len(data))
	for name, value := range data {
		var s string
		switch v := value.(type) {
		case string:
			s = v
		case nil:
		default:
			s = fmt.Sprint(v)
		}
		fields = append(fields, Field{Name: name, Value: s})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

// results is the shared bookkeeping of delivered payloads and the error sink.
type results struct {
	mu     sync.Mutex
	items  []string
	errOut io.Writer
	logger *zap.Logger
}

func (r *results) add(item string) {
	r.mu.Lock()
	r.items = append(r.items, item)
	r.mu.Unlock()
}

// Results returns what has been delivered so far, in order.
func (r *results) Results() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.items...)
}

// reportError surfaces an error notification to the user. It never fails:
// a broken error writer is only logged.
func (r *results) reportError(msg schemas.Message) {
	r.logger.Error("Pipeline reported an error.", zap.String("message", msg.Message))
	if r.errOut == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := fmt.Fprintln(r.errOut, msg.Message); err != nil {
		r.logger.Warn("Failed to write error notification.", zap.Error(err))
	}
}

func validate(msg schemas.Message) error {
	if msg.Post == nil && !msg.IsError() {
		return fmt.Errorf("message carries neither a payload nor an error")
	}
	if msg.Post != nil && msg.Post.URL == "" {
		return fmt.Errorf("playground payload has no endpoint")
	}
	return nil
}
