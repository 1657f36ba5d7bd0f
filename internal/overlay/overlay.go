// Package overlay renders hand landmarks and finger counts onto video frames.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

// Text anchor positions for the per-hand count lines.
var (
	leftTextPos  = image.Pt(10, 30)
	rightTextPos = image.Pt(10, 60)
)

// Drawing colors.
var (
	landmarkColor   = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	connectionColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	textColor       = color.RGBA{R: 255, G: 255, B: 0, A: 0}
)

// handConnections lists the landmark index pairs forming the hand skeleton,
// following the MediaPipe HAND_CONNECTIONS set.
var handConnections = [][2]int{
	// Thumb
	{detector.Wrist, detector.ThumbCMC},
	{detector.ThumbCMC, detector.ThumbMCP},
	{detector.ThumbMCP, detector.ThumbIP},
	{detector.ThumbIP, detector.ThumbTip},
	// Index
	{detector.Wrist, detector.IndexMCP},
	{detector.IndexMCP, detector.IndexPIP},
	{detector.IndexPIP, detector.IndexDIP},
	{detector.IndexDIP, detector.IndexTip},
	// Middle
	{detector.IndexMCP, detector.MiddleMCP},
	{detector.MiddleMCP, detector.MiddlePIP},
	{detector.MiddlePIP, detector.MiddleDIP},
	{detector.MiddleDIP, detector.MiddleTip},
	// Ring
	{detector.MiddleMCP, detector.RingMCP},
	{detector.RingMCP, detector.RingPIP},
	{detector.RingPIP, detector.RingDIP},
	{detector.RingDIP, detector.RingTip},
	// Pinky
	{detector.RingMCP, detector.PinkyMCP},
	{detector.Wrist, detector.PinkyMCP},
	{detector.PinkyMCP, detector.PinkyPIP},
	{detector.PinkyPIP, detector.PinkyDIP},
	{detector.PinkyDIP, detector.PinkyTip},
}

// Draw overlays landmarks, skeleton connections, and per-hand finger counts
// onto the frame in place. counts must be indexed like hands; a count of -1
// means no count is available for that hand, so only its landmarks are drawn.
func Draw(frame *gocv.Mat, hands []detector.Hand, counts []int) {
	if frame == nil || frame.Empty() {
		return
	}

	width := frame.Cols()
	height := frame.Rows()

	for i := range hands {
		hand := &hands[i]
		drawHand(frame, hand, width, height)

		count := -1
		if i < len(counts) {
			count = counts[i]
		}
		if count < 0 {
			continue
		}

		pos := rightTextPos
		if hand.Handedness == detector.HandednessLeft {
			pos = leftTextPos
		}

		label := fmt.Sprintf("%s Hand Fingers: %d", hand.Handedness, count)
		gocv.PutText(frame, label, pos, gocv.FontHersheySimplex, 1.0, textColor, 2)
	}
}

// drawHand draws the skeleton connections and landmark points for one hand.
// Connections whose endpoints are missing from a short landmark set are
// skipped rather than drawn partially.
func drawHand(frame *gocv.Mat, hand *detector.Hand, width, height int) {
	for _, conn := range handConnections {
		if conn[0] >= len(hand.Points) || conn[1] >= len(hand.Points) {
			continue
		}
		a := toPixel(hand.Points[conn[0]], width, height)
		b := toPixel(hand.Points[conn[1]], width, height)
		gocv.Line(frame, a, b, connectionColor, 2)
	}

	for _, p := range hand.Points {
		gocv.Circle(frame, toPixel(p, width, height), 4, landmarkColor, -1)
	}
}

// toPixel converts a normalized landmark position to frame pixel coordinates.
func toPixel(p detector.Point3D, width, height int) image.Point {
	return image.Pt(int(p.X*float64(width)), int(p.Y*float64(height)))
}
