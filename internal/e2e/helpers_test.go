package e2e

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"keybus/internal/httpapi"
	"keybus/internal/hub"
)

func newServer(t *testing.T, cfg hub.Config) (*httptest.Server, *hub.Hub) {
	t.Helper()
	h := hub.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(h))
	t.Cleanup(srv.Close)
	t.Cleanup(h.Drain)
	return srv, h
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

// stream is an open SSE subscription.
type stream struct {
	resp *http.Response
	br   *bufio.Reader
}

func openStream(t *testing.T, ctx context.Context, url string) *stream {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("subscribe status=%d", resp.StatusCode)
	}
	s := &stream{resp: resp, br: bufio.NewReader(resp.Body)}
	// consume the greeting so the subscription is known to be registered
	if line := s.line(t); !strings.HasPrefix(line, ": subscribed") {
		t.Fatalf("unexpected greeting %q", line)
	}
	return s
}

func (s *stream) line(t *testing.T) string {
	t.Helper()
	l, err := s.br.ReadString('\n')
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	return strings.TrimRight(l, "\n")
}

// nextData returns the data payload of the next invalidate frame.
func (s *stream) nextData(t *testing.T) string {
	t.Helper()
	for {
		l := s.line(t)
		if d, ok := strings.CutPrefix(l, "data: "); ok {
			return d
		}
	}
}
