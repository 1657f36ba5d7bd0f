package counter

import "sync"

// Default threshold values, matching the slider starting positions.
const (
	DefaultThumbIndex  = 0.10
	DefaultIndexMiddle = 0.10
)

// Thresholds holds the two calibratable distance cutoffs used by Count.
// Values are in normalized coordinate units.
type Thresholds struct {
	ThumbIndex  float64 `json:"thumb_index"`
	IndexMiddle float64 `json:"index_middle"`
}

// Clamp returns a copy with both values forced into [0,1].
func (t Thresholds) Clamp() Thresholds {
	return Thresholds{
		ThumbIndex:  clamp01(t.ThumbIndex),
		IndexMiddle: clamp01(t.IndexMiddle),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Calibration is the live threshold store shared between the UI controls
// and the per-frame counting loop. Writes take effect on the next frame;
// there is no retroactive recompute.
type Calibration struct {
	mu sync.RWMutex
	t  Thresholds
}

// NewCalibration creates a Calibration seeded with the default thresholds.
func NewCalibration() *Calibration {
	return &Calibration{
		t: Thresholds{
			ThumbIndex:  DefaultThumbIndex,
			IndexMiddle: DefaultIndexMiddle,
		},
	}
}

// Get returns the current thresholds.
func (c *Calibration) Get() Thresholds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.t
}

// Set replaces the thresholds, clamping each value into [0,1].
func (c *Calibration) Set(t Thresholds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t.Clamp()
}
