// Package testdata provides synthetic video frames for tests that need
// camera input without real capture hardware.
package testdata

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Default frame dimensions matching the capture defaults.
const (
	FrameWidth  = 640
	FrameHeight = 480
)

// SolidFrame creates a single-color BGR frame. The caller owns the Mat
// and must Close it.
func SolidFrame(c color.RGBA) *gocv.Mat {
	mat := gocv.NewMatWithSizeFromScalar(
		gocv.NewScalar(float64(c.B), float64(c.G), float64(c.R), 0),
		FrameHeight, FrameWidth, gocv.MatTypeCV8UC3,
	)
	return &mat
}

// StaticFrames creates n identical dark frames, the visual equivalent
// of a fixed camera pointed at a still scene.
func StaticFrames(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		frames[i] = SolidFrame(color.RGBA{R: 16, G: 16, B: 16})
	}
	return frames
}

// MovingSequence creates n frames with a bright rectangle sliding
// across a dark background, enough pixel change to register as motion.
func MovingSequence(n int) []*gocv.Mat {
	frames := make([]*gocv.Mat, n)
	for i := range frames {
		frame := SolidFrame(color.RGBA{R: 16, G: 16, B: 16})

		x := (i * 40) % (FrameWidth - 80)
		rect := image.Rect(x, 200, x+80, 280)
		gocv.Rectangle(frame, rect, color.RGBA{R: 240, G: 240, B: 240}, -1)

		frames[i] = frame
	}
	return frames
}

// CloseFrames releases every Mat in the slice.
func CloseFrames(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
