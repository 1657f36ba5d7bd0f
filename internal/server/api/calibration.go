// Package api provides HTTP API handlers for the Mudra finger counting system.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

// CalibrationHandler exposes the live thresholds over HTTP. It is the
// same contract as the calibration sliders: reads return the current
// values, writes are clamped and take effect on the next frame.
type CalibrationHandler struct {
	calibration *counter.Calibration
}

// NewCalibrationHandler creates a new CalibrationHandler backed by the
// given calibration store.
func NewCalibrationHandler(c *counter.Calibration) *CalibrationHandler {
	return &CalibrationHandler{calibration: c}
}

// ServeHTTP implements the http.Handler interface.
func (h *CalibrationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// get handles GET /api/calibration and returns the current thresholds.
func (h *CalibrationHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.calibration.Get())
}

// put handles PUT /api/calibration. The stored values are returned so
// the client sees the clamped result.
func (h *CalibrationHandler) put(w http.ResponseWriter, r *http.Request) {
	var req counter.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.calibration.Set(req)
	writeJSON(w, http.StatusOK, h.calibration.Get())
}

// SuggestHandler derives threshold suggestions from stored snapshots.
type SuggestHandler struct {
	store *store.Store
}

// NewSuggestHandler creates a new SuggestHandler backed by the given store.
func NewSuggestHandler(s *store.Store) *SuggestHandler {
	return &SuggestHandler{store: s}
}

type suggestRequest struct {
	OpenIDs   []string `json:"open_ids"`
	ClosedIDs []string `json:"closed_ids"`
}

// ServeHTTP handles POST /api/calibration/suggest. The request names
// snapshots of open palms and fists; the response carries suggested
// thresholds. Nothing is applied or persisted.
func (h *SuggestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.OpenIDs) == 0 || len(req.ClosedIDs) == 0 {
		writeError(w, http.StatusBadRequest, "Both open_ids and closed_ids are required")
		return
	}

	open, err := h.loadHands(req.OpenIDs)
	if err != nil {
		h.loadError(w, err)
		return
	}

	closed, err := h.loadHands(req.ClosedIDs)
	if err != nil {
		h.loadError(w, err)
		return
	}

	suggested, err := counter.Suggest(open, closed)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, suggested)
}

// loadHands reconstructs detector hands from stored snapshot landmarks.
func (h *SuggestHandler) loadHands(ids []string) ([]detector.Hand, error) {
	hands := make([]detector.Hand, 0, len(ids))

	for _, id := range ids {
		snap, err := h.store.Snapshots().GetByID(id)
		if err != nil {
			return nil, err
		}

		landmarks, err := h.store.Snapshots().GetLandmarks(id)
		if err != nil {
			return nil, err
		}

		points := make([]detector.Point3D, 0, len(landmarks))
		for _, l := range landmarks {
			points = append(points, detector.Point3D{X: l.X, Y: l.Y, Z: l.Z})
		}

		hands = append(hands, detector.Hand{
			Points:     points,
			Handedness: snap.Handedness,
			Score:      1.0,
		})
	}

	return hands, nil
}

func (h *SuggestHandler) loadError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Snapshot not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to load snapshots")
}
