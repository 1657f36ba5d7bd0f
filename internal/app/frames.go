package app

import (
	"sync"
	"time"
)

// FrameBuffer holds the most recent annotated frame as JPEG bytes.
// The pipeline is the single writer; the MJPEG stream handler and the
// windowed display poll it, using the sequence number to skip frames
// they have already consumed.
type FrameBuffer struct {
	mu   sync.RWMutex
	data []byte
	seq  uint64
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Update replaces the buffered frame. The byte slice is copied so the
// caller may reuse its buffer.
func (b *FrameBuffer) Update(jpeg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data[:0], jpeg...)
	b.seq++
}

// Latest returns a copy of the buffered frame and its sequence number.
// Callers keep using the slice after the lock is released, so handing
// out the internal buffer would let Update rewrite it mid-read.
func (b *FrameBuffer) Latest() ([]byte, uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.data == nil {
		return nil, b.seq
	}

	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out, b.seq
}

// CountEvent is one per-hand counting result from the pipeline.
type CountEvent struct {
	Handedness string `json:"handedness"`
	Count      int    `json:"count"`
	Timestamp  int64  `json:"timestamp"`
}

// CountHub fans per-hand count events out to subscribers. Slow
// subscribers drop events rather than stalling the pipeline.
type CountHub struct {
	mu   sync.Mutex
	subs map[chan CountEvent]struct{}
}

// NewCountHub creates an empty CountHub.
func NewCountHub() *CountHub {
	return &CountHub{
		subs: make(map[chan CountEvent]struct{}),
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// removes the subscription and closes the channel.
func (h *CountHub) Subscribe() (<-chan CountEvent, func()) {
	ch := make(chan CountEvent, 16)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}

	return ch, cancel
}

// Publish delivers an event to all subscribers without blocking.
func (h *CountHub) Publish(handedness string, count int) {
	event := CountEvent{
		Handedness: handedness,
		Count:      count,
		Timestamp:  time.Now().UnixMilli(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
