package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/counter"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/store"
)

// BindingHandler handles HTTP requests for binding resources.
type BindingHandler struct {
	store   *store.Store
	plugins *plugin.Manager
}

// NewBindingHandler creates a new BindingHandler. The plugin manager is
// used to reject bindings to plugins that are not installed; it may be
// nil to skip that check.
func NewBindingHandler(s *store.Store, p *plugin.Manager) *BindingHandler {
	return &BindingHandler{store: s, plugins: p}
}

// ServeHTTP implements the http.Handler interface and routes requests
// to the appropriate methods.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/bindings or /api/bindings/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
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
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createBindingRequest struct {
	FingerCount int             `json:"finger_count"`
	Handedness  string          `json:"handedness"`
	PluginName  string          `json:"plugin_name"`
	ActionName  string          `json:"action_name"`
	Config      json.RawMessage `json:"config"`
	Enabled     *bool           `json:"enabled"`
}

type updateBindingRequest struct {
	Enabled bool `json:"enabled"`
}

type bindingResponse struct {
	ID          string          `json:"id"`
	FingerCount int             `json:"finger_count"`
	Handedness  string          `json:"handedness"`
	PluginName  string          `json:"plugin_name"`
	ActionName  string          `json:"action_name"`
	Config      json.RawMessage `json:"config"`
	Enabled     bool            `json:"enabled"`
	CreatedAt   string          `json:"created_at"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

// toBindingResponse converts a store.Binding to its wire form.
func toBindingResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		ID:          b.ID,
		FingerCount: b.FingerCount,
		Handedness:  b.Handedness,
		PluginName:  b.PluginName,
		ActionName:  b.ActionName,
		Config:      json.RawMessage(b.Config),
		Enabled:     b.Enabled,
		CreatedAt:   b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// list handles GET /api/bindings and returns all bindings.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/bindings and creates a new binding.
func (h *BindingHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.FingerCount < 0 || req.FingerCount > counter.MaxCount {
		writeError(w, http.StatusBadRequest, "Finger count must be between 0 and 5")
		return
	}

	if req.Handedness != "" && req.Handedness != detector.HandednessLeft && req.Handedness != detector.HandednessRight {
		writeError(w, http.StatusBadRequest, "Invalid handedness")
		return
	}

	if req.PluginName == "" || req.ActionName == "" {
		writeError(w, http.StatusBadRequest, "Plugin name and action name are required")
		return
	}

	if h.plugins != nil {
		if _, err := h.plugins.Get(req.PluginName); err != nil {
			writeError(w, http.StatusBadRequest, "Plugin not installed")
			return
		}
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	binding := &store.Binding{
		ID:          uuid.New().String(),
		FingerCount: req.FingerCount,
		Handedness:  req.Handedness,
		PluginName:  req.PluginName,
		ActionName:  req.ActionName,
		Config:      string(req.Config),
		Enabled:     enabled,
	}

	if err := h.store.Bindings().Create(binding); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create binding")
		return
	}

	writeJSON(w, http.StatusCreated, toBindingResponse(binding))
}

// update handles PUT /api/bindings/{id} and toggles the enabled flag.
func (h *BindingHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.store.Bindings().SetEnabled(id, req.Enabled); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update binding")
		return
	}

	binding, err := h.store.Bindings().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(binding))
}

// delete handles DELETE /api/bindings/{id}.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Bindings().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
