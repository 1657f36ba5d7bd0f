package app

import (
	"math"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/counter"
)

// Window and trackbar constants. Trackbar positions map 0..100 onto the
// 0.00..1.00 threshold range.
const (
	videoWindowTitle  = "Hand Tracking"
	sliderWindowTitle = "Calibration"
	thumbIndexSlider  = "Thumb-Index Threshold"
	indexMiddleSlider = "Index-Middle Threshold"
	trackbarMax       = 100
	displayWaitKeyMs  = 33
	quitKey           = 'q'
	escKey            = 27
)

// RunWindowed shows the annotated feed and the calibration sliders,
// blocking until the user quits or the pipeline ends. HighGUI requires
// this to run on the main goroutine.
//
// The sliders and the calibration store stay in sync both ways: moving
// a slider applies on the next frame, and calibration changes made over
// the HTTP API move the sliders.
func (a *App) RunWindowed() error {
	video := gocv.NewWindow(videoWindowTitle)
	defer video.Close()

	sliders := gocv.NewWindow(sliderWindowTitle)
	defer sliders.Close()

	thumbBar := sliders.CreateTrackbar(thumbIndexSlider, trackbarMax)
	middleBar := sliders.CreateTrackbar(indexMiddleSlider, trackbarMax)

	applied := a.calibration.Get()
	thumbBar.SetPos(thresholdToPos(applied.ThumbIndex))
	middleBar.SetPos(thresholdToPos(applied.IndexMiddle))

	img := gocv.NewMat()
	defer img.Close()

	var lastSeq uint64

	for {
		select {
		case <-a.Done():
			return nil
		default:
		}

		fromBars := counter.Thresholds{
			ThumbIndex:  posToThreshold(thumbBar.GetPos()),
			IndexMiddle: posToThreshold(middleBar.GetPos()),
		}

		if fromBars != applied {
			// Slider moved
			a.calibration.Set(fromBars)
			applied = a.calibration.Get()
		} else if current := a.calibration.Get(); current != applied {
			// Changed externally (HTTP API); move the sliders to match
			thumbBar.SetPos(thresholdToPos(current.ThumbIndex))
			middleBar.SetPos(thresholdToPos(current.IndexMiddle))
			applied = current
		}

		if data, seq := a.frames.Latest(); seq != lastSeq && len(data) > 0 {
			frame, err := gocv.IMDecode(data, gocv.IMReadColor)
			if err != nil {
				logrus.Errorf("Error decoding display frame: %v", err)
			} else {
				frame.CopyTo(&img)
				frame.Close()
				video.IMShow(img)
			}
			lastSeq = seq
		}

		if key := video.WaitKey(displayWaitKeyMs); key == quitKey || key == escKey {
			return nil
		}
	}
}

// thresholdToPos converts a threshold in [0,1] to a trackbar position.
// Rounding matters: truncation would map 0.29 to position 28, and the
// sync loop would mistake the lossy round-trip for a slider move.
func thresholdToPos(t float64) int {
	return int(math.Round(t * trackbarMax))
}

// posToThreshold converts a trackbar position to a threshold in [0,1].
func posToThreshold(pos int) float64 {
	return float64(pos) / trackbarMax
}
