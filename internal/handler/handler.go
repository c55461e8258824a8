package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"topoedit/internal/codec"
	"topoedit/internal/domain"
	"topoedit/internal/service"
	"topoedit/internal/topology"
)

// CanvasHandler handles editor API requests
type CanvasHandler struct {
	svc *service.CanvasService
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(svc *service.CanvasService) *CanvasHandler {
	return &CanvasHandler{svc: svc}
}

// Register adds the API routes to mux
func (h *CanvasHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/graph", h.GetGraph)
	mux.HandleFunc("DELETE /api/graph", h.ClearAll)
	mux.HandleFunc("GET /api/stats", h.GetStats)
	mux.HandleFunc("GET /api/scene", h.GetScene)

	mux.HandleFunc("POST /api/nodes", h.AddNode)
	mux.HandleFunc("POST /api/links", h.AddLink)

	mux.HandleFunc("POST /api/gestures/click", h.Click)
	mux.HandleFunc("POST /api/gestures/pointer", h.PointerMoved)
	mux.HandleFunc("POST /api/gestures/drag", h.Drag)
	mux.HandleFunc("PUT /api/link-mode", h.SetLinkMode)

	mux.HandleFunc("POST /api/traffic", h.StartTraffic)
	mux.HandleFunc("POST /api/traffic/all", h.StartAllTraffic)
	mux.HandleFunc("DELETE /api/traffic/{id}", h.StopTraffic)

	mux.HandleFunc("GET /api/export/{format}", h.Export)
	mux.HandleFunc("POST /api/import/{format}", h.Import)
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NodeRequest places a node. With only Type set the toolbar defaults and
// a random position are used.
type NodeRequest struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
	Color string   `json:"color"`
}

// LinkRequest connects two nodes
type LinkRequest struct {
	From domain.NodeID `json:"from"`
	To   domain.NodeID `json:"to"`
}

// NodeRef names a node
type NodeRef struct {
	NodeID domain.NodeID `json:"node_id"`
}

// PointRequest carries canvas coordinates, optionally for a node
type PointRequest struct {
	NodeID domain.NodeID `json:"node_id,omitempty"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
}

// LinkModeRequest toggles link mode
type LinkModeRequest struct {
	Enabled bool `json:"enabled"`
}

// TrafficRequest starts traffic on a link
type TrafficRequest struct {
	LinkID domain.LinkID `json:"link_id"`
}

// GetGraph returns the current view of the topology
func (h *CanvasHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	graph, err := h.svc.Snapshot(r.Context())
	if err != nil {
		h.fail(w, "Failed to get graph", err)
		return
	}
	h.writeJSON(w, graph, http.StatusOK)
}

// GetStats returns editor counts
func (h *CanvasHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.fail(w, "Failed to get stats", err)
		return
	}
	h.writeJSON(w, map[string]interface{}{
		"nodes":      stats.Nodes,
		"links":      stats.Links,
		"animations": stats.Animations,
		"armed":      stats.Armed,
		"link_mode":  stats.LinkMode,
	}, http.StatusOK)
}

// GetScene returns every live shape and the last frame sequence number
func (h *CanvasHandler) GetScene(w http.ResponseWriter, r *http.Request) {
	state, err := h.svc.SceneState(r.Context())
	if err != nil {
		h.fail(w, "Failed to get scene", err)
		return
	}
	h.writeJSON(w, state, http.StatusOK)
}

// ClearAll resets the topology to the seed nodes
func (h *CanvasHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAll(r.Context()); err != nil {
		h.fail(w, "Failed to clear topology", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddNode places a node
func (h *CanvasHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	var req NodeRequest
	if !h.decode(w, r, &req) {
		return
	}

	nodeType := domain.NodeTypeBuilding
	if req.Type != "" {
		t, err := domain.ParseNodeType(req.Type)
		if err != nil {
			h.writeError(w, "Invalid node type", err.Error(), http.StatusBadRequest)
			return
		}
		nodeType = t
	}

	var (
		id  domain.NodeID
		err error
	)
	switch {
	case req.X == nil && req.Y == nil:
		id, err = h.svc.AddNodeOfType(r.Context(), nodeType)
	case req.X == nil || req.Y == nil:
		h.writeError(w, "Invalid position", "x and y must be given together", http.StatusBadRequest)
		return
	case req.Name == "":
		h.writeError(w, "Invalid node", "name is required with an explicit position", http.StatusBadRequest)
		return
	default:
		id, err = h.svc.AddNode(r.Context(), domain.NodeSpec{
			Name:  req.Name,
			X:     *req.X,
			Y:     *req.Y,
			Color: req.Color,
			Type:  nodeType,
		})
	}
	if err != nil {
		h.fail(w, "Failed to add node", err)
		return
	}

	h.writeJSON(w, map[string]domain.NodeID{"id": id}, http.StatusCreated)
}

// AddLink connects two nodes
func (h *CanvasHandler) AddLink(w http.ResponseWriter, r *http.Request) {
	var req LinkRequest
	if !h.decode(w, r, &req) {
		return
	}

	id, err := h.svc.AddLink(r.Context(), req.From, req.To)
	if err != nil {
		h.fail(w, "Failed to add link", err)
		return
	}
	h.writeJSON(w, map[string]domain.LinkID{"id": id}, http.StatusCreated)
}

// Click feeds a node click to the link gesture
func (h *CanvasHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req NodeRef
	if !h.decode(w, r, &req) {
		return
	}

	res, err := h.svc.Click(r.Context(), req.NodeID)
	if err != nil {
		h.fail(w, "Click failed", err)
		return
	}
	h.writeJSON(w, res, http.StatusOK)
}

// PointerMoved moves the link preview
func (h *CanvasHandler) PointerMoved(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.PointerMoved(r.Context(), req.X, req.Y); err != nil {
		h.fail(w, "Pointer update failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Drag moves a node and its links
func (h *CanvasHandler) Drag(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.Drag(r.Context(), req.NodeID, req.X, req.Y); err != nil {
		h.fail(w, "Drag failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLinkMode toggles link mode
func (h *CanvasHandler) SetLinkMode(w http.ResponseWriter, r *http.Request) {
	var req LinkModeRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.svc.SetLinkMode(r.Context(), req.Enabled); err != nil {
		h.fail(w, "Failed to set link mode", err)
		return
	}
	h.writeJSON(w, req, http.StatusOK)
}

// StartTraffic starts an animation on a link
func (h *CanvasHandler) StartTraffic(w http.ResponseWriter, r *http.Request) {
	var req TrafficRequest
	if !h.decode(w, r, &req) {
		return
	}

	handle, err := h.svc.StartTraffic(r.Context(), req.LinkID)
	if err != nil {
		h.fail(w, "Failed to start traffic", err)
		return
	}
	h.writeJSON(w, map[string]topology.AnimationHandle{"handle": handle}, http.StatusCreated)
}

// StartAllTraffic starts an animation on every link
func (h *CanvasHandler) StartAllTraffic(w http.ResponseWriter, r *http.Request) {
	handles, err := h.svc.StartAllTraffic(r.Context())
	if err != nil {
		h.fail(w, "Failed to start traffic", err)
		return
	}
	if handles == nil {
		handles = []topology.AnimationHandle{}
	}
	h.writeJSON(w, map[string][]topology.AnimationHandle{"handles": handles}, http.StatusCreated)
}

// StopTraffic stops an animation
func (h *CanvasHandler) StopTraffic(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, "Invalid animation handle", err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.StopTraffic(r.Context(), topology.AnimationHandle(id)); err != nil {
		h.fail(w, "Failed to stop traffic", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export writes the topology as JSON or YAML
func (h *CanvasHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := codec.Lookup(r.PathValue("format"))
	if err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", c.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=topology.%s", c.Format()))
	if err := h.svc.Export(r.Context(), c.Format(), w); err != nil {
		log.Printf("Failed to export %s: %v", c.Format(), err)
	}
}

// Import replaces the topology with an uploaded document
func (h *CanvasHandler) Import(w http.ResponseWriter, r *http.Request) {
	c, err := codec.Lookup(r.PathValue("format"))
	if err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.Import(r.Context(), c.Format(), http.MaxBytesReader(w, r.Body, 10<<20))
	if err != nil {
		h.fail(w, "Import failed", err)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}

func (h *CanvasHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// fail writes err with a status derived from its kind
func (h *CanvasHandler) fail(w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s: %v", msg, err)
	}
	h.writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidLink), errors.Is(err, service.ErrBadDocument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTrafficLimit):
		return http.StatusConflict
	case errors.Is(err, service.ErrStopped), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *CanvasHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func (h *CanvasHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
