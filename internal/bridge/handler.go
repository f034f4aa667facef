package bridge

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/workflowkit/notion-bridge/internal/server"
	"github.com/workflowkit/notion-bridge/internal/storage"
)

// Handler exposes the bridge operations over the hosting HTTP contract.
type Handler struct {
	bridge *Bridge
	store  storage.InvocationStore
}

// NewHandler creates a handler. store may be nil when auditing is disabled.
func NewHandler(b *Bridge, store storage.InvocationStore) *Handler {
	return &Handler{bridge: b, store: store}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeInputs(r *http.Request) (Inputs, error) {
	var inputs Inputs
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

// HandleCreateItem serves POST /v1/functions/create_item.
func (h *Handler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	inputs, err := decodeInputs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failure("invalid request body"))
		return
	}

	out := h.bridge.CreateItem(r.Context(), inputs)
	if !out.Success {
		server.AddLogField(r.Context(), "error", out.Error)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleUpdateItem serves POST /v1/functions/update_item.
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	inputs, err := decodeInputs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, failure("invalid request body"))
		return
	}

	out := h.bridge.UpdateItem(r.Context(), inputs)
	if !out.Success {
		server.AddLogField(r.Context(), "error", out.Error)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleListInvocations serves GET /v1/invocations.
func (h *Handler) HandleListInvocations(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeJSON(w, http.StatusOK, []storage.Invocation{})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	invocations, err := h.store.ListInvocations(r.Context(), limit)
	if err != nil {
		server.AddError(r.Context(), err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list invocations"})
		return
	}
	if invocations == nil {
		invocations = []storage.Invocation{}
	}
	writeJSON(w, http.StatusOK, invocations)
}
