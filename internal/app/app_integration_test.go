package app

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
)

func newTestApp(t *testing.T, frames []*gocv.Mat, loop bool, hands []detector.Hand) *App {
	t.Helper()

	a := New(Config{
		PluginDir:    t.TempDir(),
		MotionThresh: 0.05,
	})

	mockDetector := detector.NewMockDetector()
	mockDetector.SetHands(hands)
	a.SetDetector(mockDetector)

	a.SetCamera(capture.NewMockCamera(frames, loop))

	return a
}

func makeFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()

	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		frames[i] = &mat
	}

	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})

	return frames
}

func TestApp_PipelinePublishesCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a := newTestApp(t, makeFrames(t, 10), true, []detector.Hand{detector.OpenPalmHand()})

	events, cancel := a.Counts().Subscribe()
	defer cancel()

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	select {
	case event := <-events:
		if event.Count != 5 {
			t.Errorf("expected count 5 for open palm, got %d", event.Count)
		}
		if event.Handedness != detector.HandednessRight {
			t.Errorf("unexpected handedness %q", event.Handedness)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for a count event")
	}

	// The annotated feed reaches the frame buffer
	deadline := time.Now().Add(3 * time.Second)
	for {
		if data, seq := a.Frames().Latest(); seq > 0 && len(data) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for an annotated frame")
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestApp_PipelineEndsOnStreamExhaustion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	// A short non-looping sequence: the pipeline must exit cleanly when
	// the frames run out.
	a := newTestApp(t, makeFrames(t, 3), false, nil)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	select {
	case <-a.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop after the stream ended")
	}

	// The error exit path releases the camera itself
	if a.Camera().IsOpen() {
		t.Error("expected camera to be released after end of stream")
	}
}

func TestApp_DisabledSkipsDetection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a := newTestApp(t, makeFrames(t, 10), true, []detector.Hand{detector.OpenPalmHand()})
	a.SetEnabled(false)

	events, cancel := a.Counts().Subscribe()
	defer cancel()

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	select {
	case event := <-events:
		t.Errorf("expected no count events while disabled, got %+v", event)
	case <-time.After(time.Second):
	}

	// Raw frames still flow to the buffer for the stream
	if _, seq := a.Frames().Latest(); seq == 0 {
		t.Error("expected raw frames to keep flowing while disabled")
	}
}

func TestApp_MalformedHandProducesNoEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a := newTestApp(t, makeFrames(t, 10), true, []detector.Hand{detector.TruncatedHand()})

	events, cancel := a.Counts().Subscribe()
	defer cancel()

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer a.Stop()

	select {
	case event := <-events:
		t.Errorf("expected no events for a malformed hand, got %+v", event)
	case <-time.After(time.Second):
	}
}

func TestApp_StartIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a := newTestApp(t, makeFrames(t, 2), true, nil)

	if err := a.Start(); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	a.Stop()
	a.Stop() // double stop is safe
}
