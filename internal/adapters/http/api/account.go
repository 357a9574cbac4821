package api

import (
	"net/http"
)

// AccountHandler exposes the remote profile.
type AccountHandler struct {
	deps AccountDependencies
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(deps AccountDependencies) *AccountHandler {
	return &AccountHandler{deps: deps}
}

type accountRequest struct {
	Name string `json:"name"`
}

// HandleGet handles GET /account requests.
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_account"
	p, err := h.deps.RemoteProfile(r.Context())
	if err != nil {
		fail(w, op, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandlePut handles PUT /account requests.
func (h *AccountHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	const op = "api.save_account"
	var req accountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.SaveRemoteProfile(r.Context(), req.Name)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
