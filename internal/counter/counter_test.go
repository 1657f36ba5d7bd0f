package counter

import (
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func defaults() Thresholds {
	return Thresholds{
		ThumbIndex:  DefaultThumbIndex,
		IndexMiddle: DefaultIndexMiddle,
	}
}

func TestCount_OpenPalmAtDefaults(t *testing.T) {
	hand := detector.OpenPalmHand()

	got := Count(hand, defaults())
	if got != 5 {
		t.Errorf("expected 5 fingers for open palm at default thresholds, got %d", got)
	}
}

func TestCount_FistAtDefaults(t *testing.T) {
	hand := detector.FistHand()

	got := Count(hand, defaults())
	if got != 0 {
		t.Errorf("expected 0 fingers for closed fist at default thresholds, got %d", got)
	}
}

func TestCount_FourFingersThumbTucked(t *testing.T) {
	hand := detector.FourFingersHand()

	got := Count(hand, defaults())
	if got != 4 {
		t.Errorf("expected 4 fingers with thumb tucked, got %d", got)
	}
}

func TestCount_HighThumbThresholdDropsExactlyOne(t *testing.T) {
	hand := detector.OpenPalmHand()

	base := Count(hand, defaults())

	// Push the thumb-index threshold to its maximum: the thumb can no
	// longer clear it, and only the thumb should be lost.
	high := defaults()
	high.ThumbIndex = 1.0

	got := Count(hand, high)
	if got != base-1 {
		t.Errorf("expected count to drop by exactly 1 (from %d), got %d", base, got)
	}
	if got != 4 {
		t.Errorf("expected 4 fingers for open palm with thumb-index threshold 1.0, got %d", got)
	}
}

func TestCount_ShortHandReturnsZero(t *testing.T) {
	// Any hand with fewer than 21 landmarks yields 0, never a panic.
	for n := 0; n < detector.NumLandmarks; n++ {
		full := detector.OpenPalmHand()
		hand := detector.Hand{
			Points:     full.Points[:n],
			Handedness: full.Handedness,
		}

		if got := Count(hand, defaults()); got != 0 {
			t.Errorf("expected 0 for hand with %d landmarks, got %d", n, got)
		}
	}
}

func TestCount_TruncatedPreset(t *testing.T) {
	hand := detector.TruncatedHand()

	if got := Count(hand, defaults()); got != 0 {
		t.Errorf("expected 0 for truncated hand preset, got %d", got)
	}
}

func TestCount_ResultAlwaysInRange(t *testing.T) {
	hands := []detector.Hand{
		detector.OpenPalmHand(),
		detector.FistHand(),
		detector.FourFingersHand(),
		detector.TruncatedHand(),
	}

	thresholds := []Thresholds{
		{ThumbIndex: 0, IndexMiddle: 0},
		{ThumbIndex: 0.05, IndexMiddle: 0.2},
		{ThumbIndex: 0.5, IndexMiddle: 0.05},
		{ThumbIndex: 1, IndexMiddle: 1},
	}

	for _, hand := range hands {
		for _, th := range thresholds {
			got := Count(hand, th)
			if got < 0 || got > MaxCount {
				t.Errorf("count %d out of [0,%d] for thresholds %+v", got, MaxCount, th)
			}
		}
	}
}

func TestCount_Idempotent(t *testing.T) {
	hand := detector.OpenPalmHand()
	th := defaults()

	first := Count(hand, th)
	second := Count(hand, th)

	if first != second {
		t.Errorf("identical inputs produced different counts: %d then %d", first, second)
	}
}

func TestCount_ThumbMonotonicInThreshold(t *testing.T) {
	// Holding the landmarks fixed, lowering the thumb-index threshold
	// toward 0 can only make the thumb easier to count as extended, so
	// the total can never decrease on the way down.
	hand := detector.OpenPalmHand()

	th := defaults()
	prev := -1
	for _, v := range []float64{1.0, 0.5, 0.3, 0.21, 0.19, 0.15, 0.1, 0.05, 0.01, 0} {
		th.ThumbIndex = v
		got := Count(hand, th)
		if prev >= 0 && got < prev {
			t.Errorf("count decreased from %d to %d when threshold dropped to %v", prev, got, v)
		}
		prev = got
	}
}

func TestCount_ThumbMonotonicNearBothThresholds(t *testing.T) {
	// A thumb whose tip-to-index-MCP distance lands between the two
	// calibrated thresholds exercises the ambiguity band directly. With
	// the other fingers fixed, sweeping the thumb-index threshold down
	// through the band must still never lower the total.
	hand := detector.OpenPalmHand()
	// Index MCP sits at (0.55, 0.68, 0); place the thumb tip 0.12 away.
	hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.67, Y: 0.68, Z: 0}

	th := defaults()
	th.IndexMiddle = 0.10
	prev := -1
	for _, v := range []float64{0.20, 0.18, 0.17, 0.15, 0.13, 0.12, 0.11, 0.10, 0.05, 0} {
		th.ThumbIndex = v
		got := Count(hand, th)
		if prev >= 0 && got < prev {
			t.Errorf("count decreased from %d to %d when threshold dropped to %v", prev, got, v)
		}
		prev = got
	}
}
