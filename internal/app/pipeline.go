package app

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// runPipeline is the per-frame loop.
//
// Per iteration:
//  1. Read a frame; a read failure is end-of-stream and terminates the
//     loop cleanly.
//  2. Flip horizontally for a mirrored feed.
//  3. Motion detection picks the capture rate: active while the scene
//     moves, idle after two quiet seconds. Counting itself runs every
//     frame regardless.
//  4. Detect hands, read the thresholds once, count each hand.
//  5. Overlay landmarks and counts, publish the annotated JPEG and the
//     per-hand count events.
//  6. A count held for StableFrames consecutive frames fires any
//     matching bindings.
func (a *App) runPipeline() {
	defer close(a.doneCh)

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(capture.IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				if errors.Is(err, capture.ErrEndOfStream) {
					logrus.Info("Camera stream ended, stopping pipeline")
				} else if !errors.Is(err, capture.ErrCameraNotOpen) {
					logrus.Errorf("Error reading frame: %v", err)
				}
				// Release the camera on the error exit path too
				a.Stop()
				return
			}

			// Mirror the feed so movements track naturally
			gocv.Flip(*frame, frame, 1)

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(capture.ActiveFPS)
					frameInterval = time.Second / time.Duration(capture.ActiveFPS)
					ticker.Reset(frameInterval)
					logrus.Debug("Switched to active capture rate")
				}
			} else if activeMode && time.Since(lastMotionTime) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(capture.IdleFPS)
				frameInterval = time.Second / time.Duration(capture.IdleFPS)
				ticker.Reset(frameInterval)
				logrus.Debug("Switched to idle capture rate")
			}

			if a.IsEnabled() {
				a.processFrame(frame)
			}

			a.publishFrame(frame)
			frame.Close()
		}
	}
}

// processFrame runs detection and counting on one frame and draws the
// overlay onto it in place.
func (a *App) processFrame(frame *gocv.Mat) {
	d := a.Detector()
	if d == nil {
		return
	}

	hands, err := d.Detect(frame)
	if err != nil {
		logrus.Errorf("Error detecting hands: %v", err)
		return
	}

	if len(hands) == 0 {
		return
	}

	// One threshold read per frame; slider changes apply next frame
	thresholds := a.calibration.Get()

	counts := make([]int, len(hands))
	for i := range hands {
		hand := &hands[i]

		// A malformed hand is rendered without a count line and does
		// not feed events or bindings
		if !hand.Complete() {
			counts[i] = -1
			continue
		}

		count := counter.Count(*hand, thresholds)
		counts[i] = count

		a.counts.Publish(hand.Handedness, count)
		a.trackStability(hand.Handedness, count)
	}

	overlay.Draw(frame, hands, counts)
}

// publishFrame encodes the frame and hands it to the frame buffer.
func (a *App) publishFrame(frame *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		logrus.Errorf("Error encoding frame: %v", err)
		return
	}
	defer buf.Close()

	a.frames.Update(buf.GetBytes())
}

// trackStability debounces binding execution: a count must hold for
// StableFrames consecutive frames, and must differ from the count that
// fired last, before its bindings run.
func (a *App) trackStability(handedness string, count int) {
	s, ok := a.stability[handedness]
	if !ok {
		s = &stableCount{current: -1, fired: -1}
		a.stability[handedness] = s
	}

	if count != s.current {
		s.current = count
		s.held = 1
		return
	}

	s.held++
	if s.held == StableFrames && count != s.fired {
		s.fired = count
		a.executeBindings(count, handedness)
	}
}

// executeBindings fires the enabled bindings matching a stable count.
func (a *App) executeBindings(count int, handedness string) {
	if a.config.Store == nil {
		return
	}

	bindings, err := a.config.Store.Bindings().ListEnabledForCount(count, handedness)
	if err != nil {
		logrus.Errorf("Error loading bindings for count %d: %v", count, err)
		return
	}

	for _, b := range bindings {
		go a.runBinding(b, count, handedness)
	}
}

// runBinding executes a single binding's plugin action.
func (a *App) runBinding(b *store.Binding, count int, handedness string) {
	p, err := a.pluginMgr.Get(b.PluginName)
	if err != nil {
		logrus.Warnf("Binding %s references unknown plugin %q", b.ID, b.PluginName)
		return
	}

	req := &plugin.Request{
		Action:      b.ActionName,
		FingerCount: count,
		Handedness:  handedness,
		Config:      json.RawMessage(b.Config),
	}

	resp, err := a.pluginExec.Execute(p, req)
	if err != nil {
		logrus.Errorf("Plugin %s action %s failed: %v", b.PluginName, b.ActionName, err)
		return
	}

	if !resp.Success {
		logrus.Warnf("Plugin %s action %s reported failure: %s", b.PluginName, b.ActionName, resp.Error)
		return
	}

	logrus.Infof("Executed %s/%s for %d fingers (%s hand)", b.PluginName, b.ActionName, count, handedness)
}
