package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"keybus/pkg/types"
)

var publishClient = &http.Client{Timeout: 10 * time.Second}

// runPublish POSTs keys to server and prints the accepted invalidation.
func runPublish(ctx context.Context, server string, keys []string, out io.Writer) error {
	body, err := json.Marshal(types.InvalidateRequest{Keys: keys})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(server, "/")+"/invalidate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := publishClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return responseError(resp)
	}
	var inv types.Invalidation
	if err := json.NewDecoder(resp.Body).Decode(&inv); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	enc := json.NewEncoder(out)
	return enc.Encode(inv)
}

// runSubscribe streams invalidations under keys and prints one JSON line per
// invalidation. It stops after limit invalidations when limit > 0, when the
// server ends the stream, or when ctx is done.
func runSubscribe(ctx context.Context, server string, keys []string, limit int, out io.Writer) error {
	q := url.Values{}
	for _, k := range keys {
		q.Add("key", k)
	}
	u := strings.TrimRight(server, "/") + "/subscribe"
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	// No client timeout: the stream is long-lived and bounded by ctx.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	// Frames carry whole key paths, which may exceed bufio.Scanner's token
	// limit, so lines are read without a cap.
	seen := 0
	br := bufio.NewReader(resp.Body)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			// a trailing partial line is an unfinished frame
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}
		data, ok := strings.CutPrefix(strings.TrimRight(line, "\r\n"), "data: ")
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(out, data); err != nil {
			return err
		}
		seen++
		if limit > 0 && seen >= limit {
			return nil
		}
	}
}

// responseError turns a non-success response into an error, preferring the
// server's JSON error message.
func responseError(resp *http.Response) error {
	var er types.ErrorResponse
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &er); err == nil && er.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, er.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
