package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"keybus/internal/keypath"
	"keybus/pkg/types"
)

// subscribeHandler streams matching invalidations as Server-Sent Events.
//
// @Summary      Subscribe to invalidations
// @Description  Streams every invalidation whose key path starts with the given key segments.
// @Tags         invalidation
// @Produce      text/event-stream
// @Param        key  query     []string  false  "Key path segments, in order"  collectionFormat(multi)
// @Success      200  {string}  string    "event stream"
// @Failure      400  {object}  types.ErrorResponse
// @Failure      403  {object}  types.ErrorResponse
// @Failure      429  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /subscribe [get]
func subscribeHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lvl := requestLogLevel(r)
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		// Join server base context with request context so shutdown ends streams too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		keys := keypath.Path(r.URL.Query()["key"])
		sub, err := svc.Subscribe(ctx, keys)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure("subscribers")
			}
			writeJSONError(w, status, err.Error())
			logOutcome(r, lvl, "subscribe", status, start, err)
			return
		}
		defer sub.Close()

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		out := io.Writer(w)
		if lvl >= LevelDebug {
			out = io.MultiWriter(w, &frameLogger{sub: sub.ID()})
		}
		if _, err := fmt.Fprintf(out, ": subscribed %s\n\n", sub.ID()); err != nil {
			return
		}
		flusher.Flush()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logOutcome(r, lvl, "subscribe", http.StatusOK, start, nil)
				return
			case inv, ok := <-sub.Events():
				if !ok {
					logOutcome(r, lvl, "subscribe", http.StatusOK, start, nil)
					return
				}
				if err := writeEvent(out, inv); err != nil {
					logOutcome(r, lvl, "subscribe", http.StatusOK, start, err)
					return
				}
				sseFramesTotal.WithLabelValues("invalidate").Inc()
				flusher.Flush()
			case <-ticker.C:
				if _, err := io.WriteString(out, ": keepalive\n\n"); err != nil {
					return
				}
				sseFramesTotal.WithLabelValues("keepalive").Inc()
				flusher.Flush()
			}
		}
	}
}

// writeEvent renders one invalidation as an SSE frame.
func writeEvent(w io.Writer, inv types.Invalidation) error {
	b, err := json.Marshal(inv)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %s\nevent: invalidate\ndata: %s\n\n", inv.ID, b)
	return err
}
