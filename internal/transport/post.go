// File: internal/transport/post.go
package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/extractor-cli/api/schemas"
	"github.com/xkilldash9x/extractor-cli/internal/network"
)

const defaultPostTimeout = 30 * time.Second

// PostSender submits payloads directly to the playground endpoint. Redirects
// are not followed; the Location of the created pen or fiddle is recorded.
type PostSender struct {
	results
	client *http.Client
}

var _ Sender = (*PostSender)(nil)

// NewPostSender creates a sender with its own HTTP client.
func NewPostSender(timeout time.Duration, errOut io.Writer, logger *zap.Logger) *PostSender {
	if timeout <= 0 {
		timeout = defaultPostTimeout
	}
	cfg := network.NewDefaultClientConfig(timeout)
	cfg.FollowRedirects = false
	cfg.Logger = logger
	return NewPostSenderWithClient(network.NewClient(cfg), errOut, logger)
}

// NewPostSenderWithClient uses client as is.
func NewPostSenderWithClient(client *http.Client, errOut io.Writer, logger *zap.Logger) *PostSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostSender{
		results: results{errOut: errOut, logger: logger.Named("transport.post")},
		client:  client,
	}
}

// Send implements schemas.Transport.
func (s *PostSender) Send(ctx context.Context, msg schemas.Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	if msg.Post == nil {
		s.reportError(msg)
		return nil
	}

	form := url.Values{}
	for _, f := range Fields(msg.Post.Data) {
		form.Set(f.Name, f.Value)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, msg.Post.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", msg.Post.URL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post to %s: %w", msg.Post.URL, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("playground %s responded with %s", msg.Post.URL, resp.Status)
	}

	location := msg.Post.URL
	if loc, err := resp.Location(); err == nil {
		location = loc.String()
	}
	s.add(location)
	s.logger.Info("Posted playground payload.",
		zap.String("endpoint", msg.Post.URL),
		zap.Int("status", resp.StatusCode),
		zap.String("location", location))
	return nil
}
