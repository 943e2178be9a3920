package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"keybus/internal/hub"
	"keybus/internal/keypath"
	"keybus/pkg/types"
)

type mockService struct {
	published  []keypath.Path
	publishErr error
	subErr     error
	status     types.StatusResponse
	ready      bool
}

func (m *mockService) Publish(ctx context.Context, keys keypath.Path) (types.Invalidation, error) {
	if m.publishErr != nil {
		return types.Invalidation{}, m.publishErr
	}
	m.published = append(m.published, keys)
	return types.Invalidation{ID: "inv-1", Keys: keys, PublishedAt: 1}, nil
}

func (m *mockService) Subscribe(ctx context.Context, keys keypath.Path) (*hub.Subscription, error) {
	if m.subErr != nil {
		return nil, m.subErr
	}
	return hub.New(nil).Subscribe(ctx, keys)
}

func (m *mockService) Status() types.StatusResponse { return m.status }
func (m *mockService) Ready() bool                  { return m.ready }

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func postJSON(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/invalidate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestInvalidate_Accepted(t *testing.T) {
	svc := &mockService{}
	w := postJSON(NewMux(svc), `{"keys":["datasets","42"]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var inv types.Invalidation
	if err := json.Unmarshal(w.Body.Bytes(), &inv); err != nil {
		t.Fatalf("json: %v", err)
	}
	if inv.ID != "inv-1" || strings.Join(inv.Keys, "/") != "datasets/42" {
		t.Fatalf("unexpected body: %+v", inv)
	}
	if len(svc.published) != 1 || !keypath.Equal(svc.published[0], keypath.Path{"datasets", "42"}) {
		t.Fatalf("published=%v", svc.published)
	}
}

func TestInvalidate_SingleKeyShorthand(t *testing.T) {
	svc := &mockService{}
	w := postJSON(NewMux(svc), `{"key":"datasets"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("status=%d", w.Code)
	}
	if len(svc.published) != 1 || !keypath.Equal(svc.published[0], keypath.Path{"datasets"}) {
		t.Fatalf("published=%v", svc.published)
	}
}

func TestInvalidate_RequiresJSONContentType(t *testing.T) {
	r := NewMux(&mockService{})
	req := httptest.NewRequest(http.MethodPost, "/invalidate", strings.NewReader(`{"key":"a"}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestInvalidate_BadJSON(t *testing.T) {
	w := postJSON(NewMux(&mockService{}), `{"keys":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Code != http.StatusBadRequest || body.Error == "" {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestInvalidate_BodyTooLarge(t *testing.T) {
	SetMaxBodyBytes(16)
	defer SetMaxBodyBytes(0)
	w := postJSON(NewMux(&mockService{}), `{"keys":["`+strings.Repeat("x", 64)+`"]}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestInvalidate_ErrorMapping(t *testing.T) {
	restricted := hub.New([]string{"workspace"})
	_, rootErr := restricted.Publish(context.Background(), keypath.Path{"datasets"})

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid key", hub.ErrInvalidKey("empty"), http.StatusBadRequest},
		{"root not allowed", rootErr, http.StatusForbidden},
		{"http error", mockHTTPError{msg: "teapot", code: http.StatusTeapot}, http.StatusTeapot},
		{"unknown", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(NewMux(&mockService{publishErr: tc.err}), `{"key":"a"}`)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d", w.Code, tc.want)
			}
		})
	}
}

func TestInvalidate_RealHubRejectsEmptyPath(t *testing.T) {
	w := postJSON(NewMux(hub.New(nil)), `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{MaxSubscribers: 7, Roots: []string{"a"}}}
	w := httptest.NewRecorder()
	NewMux(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.MaxSubscribers != 7 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	svc := &mockService{ready: true}
	r := NewMux(svc)
	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, w.Code)
		}
	}
	svc.ready = false
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "draining") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestSecurityHeader(t *testing.T) {
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options=%q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	SetCORSOptions(true, []string{"https://app.example"}, []string{"GET", "POST"}, []string{"Content-Type"})
	defer SetCORSOptions(false, nil, nil, nil)
	r := NewMux(&mockService{})

	req := httptest.NewRequest(http.MethodOptions, "/invalidate", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allow-origin=%q", got)
	}
}

func TestCORS_DisabledByDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	w := httptest.NewRecorder()
	NewMux(&mockService{}).ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin=%q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := NewMux(&mockService{})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("keybusd_http_requests_total")) {
		t.Fatalf("metrics body missing request counter")
	}
}
