package server

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/ayusman/mudra/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// CountsHandler pushes count events to WebSocket clients as they come
// off the pipeline.
type CountsHandler struct {
	counts *app.CountHub
}

// NewCountsHandler creates a new CountsHandler fed by the given hub.
func NewCountsHandler(counts *app.CountHub) *CountsHandler {
	return &CountsHandler{counts: counts}
}

// ServeHTTP upgrades the connection and relays count events until the
// client disconnects.
func (h *CountsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	events, cancel := h.counts.Subscribe()
	defer cancel()

	// Drain client messages so close frames are processed
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}
