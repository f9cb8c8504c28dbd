package stream

import (
	"fmt"
	"net/http"
)

// HTTPWriter adapts an http.ResponseWriter into a FrameWriter, flushing
// after every frame so events reach the client as they are emitted.
type HTTPWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewHTTPWriter wraps w. It fails when the underlying writer cannot flush,
// since an unflushed SSE stream would sit in a buffer until the request ends.
func NewHTTPWriter(w http.ResponseWriter) (*HTTPWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support flushing")
	}
	return &HTTPWriter{w: w, flusher: flusher}, nil
}

// WriteFrame writes one SSE frame and flushes it. A write error means the
// peer is gone; callers stop the replay loop on it.
func (h *HTTPWriter) WriteFrame(frame []byte) error {
	if _, err := h.w.Write(frame); err != nil {
		return err
	}
	h.flusher.Flush()
	return nil
}
