package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []Hand
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []Hand) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmHand returns a preset Hand representing a fully open palm.
// All five digits are extended, fingertips well clear of the wrist.
func OpenPalmHand() Hand {
	hand := Hand{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: HandednessRight,
		Score:      0.95,
	}

	// Wrist at base
	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	hand.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	hand.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	hand.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	hand.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index finger extended upward
	hand.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	hand.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	hand.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	hand.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle finger extended upward (slightly longer)
	hand.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	hand.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	hand.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	hand.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring finger extended upward
	hand.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	hand.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	hand.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	hand.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky finger extended upward
	hand.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	hand.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	hand.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	hand.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return hand
}

// FistHand returns a preset Hand representing a closed fist.
// All fingertips are curled back toward the palm and the thumb is
// tucked against the index knuckle.
func FistHand() Hand {
	hand := Hand{
		Points:     make([]Point3D, NumLandmarks),
		Handedness: HandednessRight,
		Score:      0.95,
	}

	// Wrist at base
	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb curled across the palm, tip resting near the index tip
	hand.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.01}
	hand.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.72, Z: 0.01}
	hand.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.68, Z: 0.01}
	hand.Points[ThumbTip] = Point3D{X: 0.52, Y: 0.67, Z: 0.01}

	// Index finger curled (tip pulled back toward the palm)
	hand.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	hand.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.64, Z: -0.05}
	hand.Points[IndexDIP] = Point3D{X: 0.53, Y: 0.66, Z: -0.04}
	hand.Points[IndexTip] = Point3D{X: 0.51, Y: 0.68, Z: -0.02}

	// Middle finger curled
	hand.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	hand.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.62, Z: -0.05}
	hand.Points[MiddleDIP] = Point3D{X: 0.48, Y: 0.64, Z: -0.04}
	hand.Points[MiddleTip] = Point3D{X: 0.47, Y: 0.67, Z: -0.02}

	// Ring finger curled
	hand.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	hand.Points[RingPIP] = Point3D{X: 0.45, Y: 0.64, Z: -0.05}
	hand.Points[RingDIP] = Point3D{X: 0.43, Y: 0.66, Z: -0.04}
	hand.Points[RingTip] = Point3D{X: 0.42, Y: 0.69, Z: -0.02}

	// Pinky finger curled
	hand.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	hand.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.67, Z: -0.05}
	hand.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.69, Z: -0.04}
	hand.Points[PinkyTip] = Point3D{X: 0.37, Y: 0.71, Z: -0.02}

	return hand
}

// FourFingersHand returns a preset Hand with all four fingers extended and
// the thumb tucked against the index knuckle.
func FourFingersHand() Hand {
	hand := OpenPalmHand()

	// Tuck the thumb: tip sits right next to the index MCP
	hand.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.75, Z: 0.01}
	hand.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.73, Z: 0.01}
	hand.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.71, Z: 0.01}
	hand.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.69, Z: 0.01}

	return hand
}

// TruncatedHand returns a malformed Hand with fewer than NumLandmarks points,
// as a provider may produce for a partially occluded hand.
func TruncatedHand() Hand {
	full := OpenPalmHand()
	return Hand{
		Points:     full.Points[:10],
		Handedness: full.Handedness,
		Score:      0.4,
	}
}
