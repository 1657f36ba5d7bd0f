package app

import "testing"

func TestThresholdToPos_RoundsToNearest(t *testing.T) {
	cases := []struct {
		threshold float64
		want      int
	}{
		{0, 0},
		{0.05, 5},
		// 0.29 is not exactly representable; truncation would give 28
		{0.29, 29},
		{0.57, 57},
		{0.58, 58},
		{1.0, 100},
	}

	for _, c := range cases {
		if got := thresholdToPos(c.threshold); got != c.want {
			t.Errorf("thresholdToPos(%v) = %d, want %d", c.threshold, got, c.want)
		}
	}
}

func TestTrackbarRoundTrip_Stable(t *testing.T) {
	// Every slider position must survive pos -> threshold -> pos, or the
	// display sync loop would report a phantom slider move each tick.
	for pos := 0; pos <= trackbarMax; pos++ {
		if back := thresholdToPos(posToThreshold(pos)); back != pos {
			t.Errorf("position %d round-tripped to %d", pos, back)
		}
	}
}
