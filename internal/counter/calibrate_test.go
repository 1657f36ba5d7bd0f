package counter

import (
	"testing"

	"github.com/ayusman/mudra/internal/detector"
)

func TestSuggest_SeparatesOpenAndClosed(t *testing.T) {
	open := []detector.Hand{detector.OpenPalmHand(), detector.OpenPalmHand()}
	closed := []detector.Hand{detector.FistHand(), detector.FistHand()}

	got, err := Suggest(open, closed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Each suggested cutoff must sit strictly between the closed and open
	// distances so both poses classify correctly under it.
	if got.ThumbIndex <= 0 || got.ThumbIndex >= 1 {
		t.Errorf("thumb-index suggestion %v outside (0,1)", got.ThumbIndex)
	}
	if got.IndexMiddle <= 0 || got.IndexMiddle >= 1 {
		t.Errorf("index-middle suggestion %v outside (0,1)", got.IndexMiddle)
	}

	// Under the suggested thresholds the fist must still read as 0 and
	// the open palm as 5.
	if c := Count(detector.FistHand(), got); c != 0 {
		t.Errorf("fist counted as %d under suggested thresholds %+v", c, got)
	}
	if c := Count(detector.OpenPalmHand(), got); c != 5 {
		t.Errorf("open palm counted as %d under suggested thresholds %+v", c, got)
	}
}

func TestSuggest_EmptySets(t *testing.T) {
	open := []detector.Hand{detector.OpenPalmHand()}

	if _, err := Suggest(nil, []detector.Hand{detector.FistHand()}); err == nil {
		t.Error("expected error for empty open set")
	}
	if _, err := Suggest(open, nil); err == nil {
		t.Error("expected error for empty closed set")
	}
}

func TestSuggest_IncompleteHand(t *testing.T) {
	open := []detector.Hand{detector.TruncatedHand()}
	closed := []detector.Hand{detector.FistHand()}

	if _, err := Suggest(open, closed); err == nil {
		t.Error("expected error for a sample with missing landmarks")
	}
}

func TestSuggest_InvertedSets(t *testing.T) {
	// Swapping the sets must be rejected: closed-hand distances would not
	// be smaller than open-hand distances.
	open := []detector.Hand{detector.FistHand()}
	closed := []detector.Hand{detector.OpenPalmHand()}

	if _, err := Suggest(open, closed); err == nil {
		t.Error("expected error when open and closed sets are swapped")
	}
}
