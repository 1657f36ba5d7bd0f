// Package detector provides hand landmark detection interfaces and types.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Handedness labels as reported by the landmark provider.
const (
	HandednessLeft  = "Left"
	HandednessRight = "Right"
)

// Point3D represents a landmark position with normalized coordinates.
// X and Y are in [0,1] relative to frame width and height.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand represents one detected hand. Points is ordered by landmark index.
// A well-formed hand has exactly NumLandmarks points, but the provider may
// return fewer for a partially visible hand, so consumers must check
// Complete before indexing.
type Hand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"` // "Left" or "Right"
	Score      float64   `json:"score"`
}

// Complete reports whether the hand carries the full landmark set.
func (h *Hand) Complete() bool {
	return h != nil && len(h.Points) >= NumLandmarks
}
