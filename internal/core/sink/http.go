package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/solatis/sdlc-connector/internal/types"
)

// ContentPath is appended to the configured base URL.
const ContentPath = "/content"

// HTTPTransport posts envelopes as a one-element JSON array.
type HTTPTransport struct {
	client   *http.Client
	endpoint string
}

// NewHTTPTransport creates a transport that posts to baseURL + "/content".
// A nil client means http.DefaultClient.
func NewHTTPTransport(baseURL string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client, endpoint: baseURL + ContentPath}
}

func (t *HTTPTransport) Name() string { return "http" }

// Send posts env. Any non-2xx status is an error.
func (t *HTTPTransport) Send(ctx context.Context, env *types.Envelope) error {
	body, err := encodeBatch(env)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", t.endpoint, err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post %s: unexpected status %d", t.endpoint, resp.StatusCode)
	}
	return nil
}
