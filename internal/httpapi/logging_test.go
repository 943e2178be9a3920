package httpapi

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"":      LevelOff,
		"off":   LevelOff,
		"error": LevelError,
		"info":  LevelInfo,
		"DEBUG": LevelDebug,
		"weird": LevelInfo, // default
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestLogLevel_Overrides(t *testing.T) {
	r := httptest.NewRequest("GET", "/x?log=debug", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x?log=1", nil)
	if got := requestLogLevel(r); got != LevelDebug {
		t.Fatalf("shorthand query override failed: %v", got)
	}
	r = httptest.NewRequest("GET", "/x", nil)
	r.Header.Set("X-Log-Level", "error")
	if got := requestLogLevel(r); got != LevelError {
		t.Fatalf("header override failed: %v", got)
	}
}

func TestRequestLogLevel_Default(t *testing.T) {
	old := defaultLogLevel
	defer func() { defaultLogLevel = old }()
	SetRequestLogLevel("info")
	if got := requestLogLevel(httptest.NewRequest("GET", "/x", nil)); got != LevelInfo {
		t.Fatalf("default level=%v", got)
	}
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := zlog
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { zlog = old })
	return &buf
}

func TestLogOutcome_RespectsLevel(t *testing.T) {
	buf := captureLogs(t)
	r := httptest.NewRequest("POST", "/invalidate", nil)

	logOutcome(r, LevelOff, "invalidate", 500, time.Now(), errors.New("boom"))
	logOutcome(r, LevelError, "invalidate", 202, time.Now(), nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	logOutcome(r, LevelError, "invalidate", 500, time.Now(), errors.New("boom"))
	if !strings.Contains(buf.String(), `"message":"invalidate end"`) || !strings.Contains(buf.String(), `"status":500`) {
		t.Fatalf("missing error outcome: %q", buf.String())
	}
	buf.Reset()
	logOutcome(r, LevelInfo, "invalidate", 202, time.Now(), nil)
	if !strings.Contains(buf.String(), `"level":"info"`) {
		t.Fatalf("missing info outcome: %q", buf.String())
	}
}

func TestFrameLogger_SplitsLines(t *testing.T) {
	buf := captureLogs(t)
	fl := &frameLogger{sub: "s1"}
	_, _ = fl.Write([]byte("id: 1\nevent: inv"))
	_, _ = fl.Write([]byte("alidate\n\n"))
	out := buf.String()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected two log lines, got %q", out)
	}
	if !strings.Contains(out, "sse> event: invalidate") || !strings.Contains(out, `"subscription":"s1"`) {
		t.Fatalf("unexpected log output: %q", out)
	}
}
