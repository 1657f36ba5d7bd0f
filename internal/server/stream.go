package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/mudra/internal/app"
)

// StreamHandler serves the annotated frames as an MJPEG stream. Frames
// come from the pipeline's FrameBuffer, so any number of clients can
// watch without contending for the camera.
type StreamHandler struct {
	frames *app.FrameBuffer
}

// NewStreamHandler creates a new StreamHandler reading from the given buffer.
func NewStreamHandler(frames *app.FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var lastSeq uint64

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		jpeg, seq := h.frames.Latest()
		if seq == lastSeq || len(jpeg) == 0 {
			// Nothing new from the pipeline yet
			time.Sleep(33 * time.Millisecond)
			continue
		}
		lastSeq = seq

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
