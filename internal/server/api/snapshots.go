package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

// SnapshotHandler handles HTTP requests for snapshot resources.
type SnapshotHandler struct {
	store       *store.Store
	calibration *counter.Calibration
}

// NewSnapshotHandler creates a new SnapshotHandler. The calibration is
// used to record the thresholds in effect when a snapshot is taken; it
// may be nil, in which case counts are stored as submitted thresholds
// of zero.
func NewSnapshotHandler(s *store.Store, c *counter.Calibration) *SnapshotHandler {
	return &SnapshotHandler{store: s, calibration: c}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate methods.
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/snapshots or /api/snapshots/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/snapshots")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createSnapshotRequest struct {
	Label      string             `json:"label"`
	Handedness string             `json:"handedness"`
	Landmarks  []detector.Point3D `json:"landmarks"`
}

type landmarkResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type snapshotResponse struct {
	ID          string             `json:"id"`
	Label       string             `json:"label"`
	Handedness  string             `json:"handedness"`
	FingerCount int                `json:"finger_count"`
	ThumbIndex  float64            `json:"thumb_index"`
	IndexMiddle float64            `json:"index_middle"`
	CreatedAt   string             `json:"created_at"`
	Landmarks   []landmarkResponse `json:"landmarks,omitempty"`
}

type listSnapshotsResponse struct {
	Snapshots []snapshotResponse `json:"snapshots"`
}

// toSnapshotResponse converts a store.Snapshot to its wire form.
func toSnapshotResponse(s *store.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:          s.ID,
		Label:       s.Label,
		Handedness:  s.Handedness,
		FingerCount: s.FingerCount,
		ThumbIndex:  s.ThumbIndex,
		IndexMiddle: s.IndexMiddle,
		CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/snapshots, optionally filtered by ?label=.
func (h *SnapshotHandler) list(w http.ResponseWriter, r *http.Request) {
	var snapshots []*store.Snapshot
	var err error

	if label := r.URL.Query().Get("label"); label != "" {
		snapshots, err = h.store.Snapshots().ListByLabel(label)
	} else {
		snapshots, err = h.store.Snapshots().List()
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}

	response := listSnapshotsResponse{
		Snapshots: make([]snapshotResponse, 0, len(snapshots)),
	}
	for _, s := range snapshots {
		response.Snapshots = append(response.Snapshots, toSnapshotResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/snapshots/{id} and includes the stored landmarks.
func (h *SnapshotHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	snap, err := h.store.Snapshots().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get snapshot")
		return
	}

	landmarks, err := h.store.Snapshots().GetLandmarks(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get landmarks")
		return
	}

	response := toSnapshotResponse(snap)
	response.Landmarks = make([]landmarkResponse, 0, len(landmarks))
	for _, l := range landmarks {
		response.Landmarks = append(response.Landmarks, landmarkResponse{X: l.X, Y: l.Y, Z: l.Z})
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/snapshots. The finger count is computed from
// the submitted landmarks with the thresholds in effect right now, so a
// snapshot records what the heuristic actually saw.
func (h *SnapshotHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Landmarks) != detector.NumLandmarks {
		writeError(w, http.StatusBadRequest, "Landmarks must contain exactly 21 points")
		return
	}

	if req.Handedness != "" && req.Handedness != detector.HandednessLeft && req.Handedness != detector.HandednessRight {
		writeError(w, http.StatusBadRequest, "Invalid handedness")
		return
	}

	var thresholds counter.Thresholds
	if h.calibration != nil {
		thresholds = h.calibration.Get()
	}

	hand := detector.Hand{
		Points:     req.Landmarks,
		Handedness: req.Handedness,
		Score:      1.0,
	}

	snap := &store.Snapshot{
		ID:          uuid.New().String(),
		Label:       req.Label,
		Handedness:  req.Handedness,
		FingerCount: counter.Count(hand, thresholds),
		ThumbIndex:  thresholds.ThumbIndex,
		IndexMiddle: thresholds.IndexMiddle,
	}

	landmarks := make([]store.Landmark, 0, len(req.Landmarks))
	for i, p := range req.Landmarks {
		landmarks = append(landmarks, store.Landmark{Index: i, X: p.X, Y: p.Y, Z: p.Z})
	}

	if err := h.store.Snapshots().Create(snap, landmarks); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create snapshot")
		return
	}

	writeJSON(w, http.StatusCreated, toSnapshotResponse(snap))
}

// delete handles DELETE /api/snapshots/{id}.
func (h *SnapshotHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Snapshots().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Snapshot not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete snapshot")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
