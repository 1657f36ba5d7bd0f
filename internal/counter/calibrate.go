package counter

import (
	"fmt"

	"github.com/ayusman/mudra/internal/detector"
)

// Suggest derives threshold values from labeled reference hands: a set
// captured with the hand fully open and a set captured as a closed fist.
// Each suggested threshold is the midpoint between the mean distance in
// the closed set and the mean distance in the open set, clamped to [0,1].
//
// The result is a suggestion only; callers decide whether to apply it via
// Calibration.Set. Nothing is persisted.
func Suggest(open, closed []detector.Hand) (Thresholds, error) {
	openThumb, openIndex, err := meanDistances(open)
	if err != nil {
		return Thresholds{}, fmt.Errorf("open hands: %w", err)
	}

	closedThumb, closedIndex, err := meanDistances(closed)
	if err != nil {
		return Thresholds{}, fmt.Errorf("closed hands: %w", err)
	}

	if closedThumb >= openThumb || closedIndex >= openIndex {
		return Thresholds{}, fmt.Errorf("closed-hand distances are not smaller than open-hand distances")
	}

	return Thresholds{
		ThumbIndex:  (openThumb + closedThumb) / 2,
		IndexMiddle: (openIndex + closedIndex) / 2,
	}.Clamp(), nil
}

// meanDistances averages the thumb-index and index-middle tip distances
// across a set of hands. Every hand must carry the full landmark set.
func meanDistances(hands []detector.Hand) (thumbIndex, indexMiddle float64, err error) {
	if len(hands) == 0 {
		return 0, 0, fmt.Errorf("no samples provided")
	}

	for i := range hands {
		if !hands[i].Complete() {
			return 0, 0, fmt.Errorf("sample %d has %d landmarks, expected %d",
				i, len(hands[i].Points), detector.NumLandmarks)
		}

		pts := hands[i].Points
		thumbIndex += dist(pts[detector.ThumbTip], pts[detector.IndexTip])
		indexMiddle += dist(pts[detector.IndexTip], pts[detector.MiddleTip])
	}

	n := float64(len(hands))
	return thumbIndex / n, indexMiddle / n, nil
}
