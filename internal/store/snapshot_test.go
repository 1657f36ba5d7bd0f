package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func makeSnapshot(label string) (*Snapshot, []Landmark) {
	snap := &Snapshot{
		ID:          uuid.New().String(),
		Label:       label,
		Handedness:  "Right",
		FingerCount: 5,
		ThumbIndex:  0.1,
		IndexMiddle: 0.1,
	}

	landmarks := make([]Landmark, 21)
	for i := range landmarks {
		landmarks[i] = Landmark{
			Index: i,
			X:     float64(i) * 0.01,
			Y:     0.5,
			Z:     0,
		}
	}

	return snap, landmarks
}

func TestSnapshotRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)

	snap, landmarks := makeSnapshot("open")
	if err := s.Snapshots().Create(snap, landmarks); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	got, err := s.Snapshots().GetByID(snap.ID)
	if err != nil {
		t.Fatalf("failed to get snapshot: %v", err)
	}

	if got.Label != "open" {
		t.Errorf("label = %q, want %q", got.Label, "open")
	}
	if got.FingerCount != 5 {
		t.Errorf("finger count = %d, want 5", got.FingerCount)
	}
	if got.ThumbIndex != 0.1 || got.IndexMiddle != 0.1 {
		t.Errorf("thresholds = (%v, %v), want (0.1, 0.1)", got.ThumbIndex, got.IndexMiddle)
	}
}

func TestSnapshotRepository_GetLandmarks(t *testing.T) {
	s := newTestStore(t)

	snap, landmarks := makeSnapshot("open")
	if err := s.Snapshots().Create(snap, landmarks); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	got, err := s.Snapshots().GetLandmarks(snap.ID)
	if err != nil {
		t.Fatalf("failed to get landmarks: %v", err)
	}

	if len(got) != 21 {
		t.Fatalf("expected 21 landmarks, got %d", len(got))
	}

	// Landmarks come back ordered by index
	for i, l := range got {
		if l.Index != i {
			t.Errorf("landmark %d has index %d", i, l.Index)
		}
	}
}

func TestSnapshotRepository_ListByLabel(t *testing.T) {
	s := newTestStore(t)

	openSnap, openLandmarks := makeSnapshot("open")
	if err := s.Snapshots().Create(openSnap, openLandmarks); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	fistSnap, fistLandmarks := makeSnapshot("fist")
	fistSnap.FingerCount = 0
	if err := s.Snapshots().Create(fistSnap, fistLandmarks); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	open, err := s.Snapshots().ListByLabel("open")
	if err != nil {
		t.Fatalf("failed to list by label: %v", err)
	}
	if len(open) != 1 || open[0].ID != openSnap.ID {
		t.Errorf("expected only the open snapshot, got %d results", len(open))
	}

	all, err := s.Snapshots().List()
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(all))
	}
}

func TestSnapshotRepository_DeleteCascades(t *testing.T) {
	s := newTestStore(t)

	snap, landmarks := makeSnapshot("open")
	if err := s.Snapshots().Create(snap, landmarks); err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}

	if err := s.Snapshots().Delete(snap.ID); err != nil {
		t.Fatalf("failed to delete snapshot: %v", err)
	}

	if _, err := s.Snapshots().GetByID(snap.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Cascade removed the child rows
	got, err := s.Snapshots().GetLandmarks(snap.ID)
	if err != nil {
		t.Fatalf("failed to query landmarks: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected landmarks to cascade-delete, found %d", len(got))
	}
}

func TestSnapshotRepository_GetMissing(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Snapshots().GetByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.Snapshots().Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
