// Package counter derives a finger count from hand landmark geometry.
package counter

import (
	"math"

	"github.com/ayusman/mudra/internal/detector"
)

const (
	// ExtendMargin is how much farther from the wrist a fingertip must be
	// than its PIP joint before the finger counts as extended, in
	// normalized coordinate units.
	ExtendMargin = 0.05

	// AmbiguityBand is the half-width of the region around the thumb-index
	// threshold where the measured distance is considered ambiguous and
	// the nearer of the two calibrated thresholds decides.
	AmbiguityBand = 0.05

	// MaxCount is the largest possible finger count.
	MaxCount = 5
)

// fingers lists the tip and PIP landmark index for each non-thumb finger.
var fingers = [4]struct{ tip, pip int }{
	{detector.IndexTip, detector.IndexPIP},
	{detector.MiddleTip, detector.MiddlePIP},
	{detector.RingTip, detector.RingPIP},
	{detector.PinkyTip, detector.PinkyPIP},
}

// Count returns the number of extended fingers for one hand given the
// current thresholds. The result is always in [0,MaxCount].
//
// A hand with fewer than detector.NumLandmarks points is treated as
// "no count available" and yields 0; malformed input never produces an
// error.
func Count(hand detector.Hand, t Thresholds) int {
	if !hand.Complete() {
		return 0
	}

	pts := hand.Points

	// Closed-fist shortcut: thumb resting on the index tip and the index
	// and middle tips touching reads as a fist regardless of the
	// per-finger checks.
	thumbIndexDist := dist(pts[detector.ThumbTip], pts[detector.IndexTip])
	indexMiddleDist := dist(pts[detector.IndexTip], pts[detector.MiddleTip])
	if thumbIndexDist < t.ThumbIndex && indexMiddleDist < t.IndexMiddle {
		return 0
	}

	count := 0

	// Non-thumb fingers: extended when the tip is farther from the wrist
	// than the PIP joint by more than the margin.
	wrist := pts[detector.Wrist]
	for _, f := range fingers {
		if dist(pts[f.tip], wrist) > dist(pts[f.pip], wrist)+ExtendMargin {
			count++
		}
	}

	if thumbExtended(pts, t) {
		count++
	}

	if count > MaxCount {
		count = MaxCount
	}
	return count
}

// thumbExtended decides the thumb flag from the distance between the thumb
// tip and the index MCP. A distance over the thumb-index threshold always
// extends. When the distance falls short but sits inside the ambiguity band
// below the threshold, the index-middle threshold may rescue the extension.
// The band can only extend, never retract, so lowering the thumb-index
// threshold toward 0 never un-extends the thumb.
func thumbExtended(pts []detector.Point3D, t Thresholds) bool {
	d := dist(pts[detector.ThumbTip], pts[detector.IndexMCP])

	if d > t.ThumbIndex {
		return true
	}

	return t.ThumbIndex-d <= AmbiguityBand && d > t.IndexMiddle
}

// dist calculates the Euclidean distance between two landmark points.
func dist(a, b detector.Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
