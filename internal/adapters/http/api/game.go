package api

import (
	"net/http"
	"strings"

	"github.com/okian/debut/internal/domain/game"
)

// GameHandler handles career, profile and agency requests.
type GameHandler struct {
	deps GameDependencies
}

// NewGameHandler creates a new game handler.
func NewGameHandler(deps GameDependencies) *GameHandler {
	return &GameHandler{deps: deps}
}

type careerRequest struct {
	CareerPath game.CareerPath `json:"careerPath"`
}

// path returns the career path trimmed and lowercased, matching how
// submission enums are accepted.
func (c careerRequest) path() game.CareerPath {
	return game.CareerPath(strings.ToLower(strings.TrimSpace(string(c.CareerPath))))
}

// HandleGetState handles GET /state requests.
func (h *GameHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.deps.State()
	if err != nil {
		fail(w, "api.get_state", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleResetState handles DELETE /state requests.
func (h *GameHandler) HandleResetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.deps.ResetGame(r.Context())
	if err != nil {
		fail(w, "api.reset_state", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleStartCareer handles POST /career requests.
func (h *GameHandler) HandleStartCareer(w http.ResponseWriter, r *http.Request) {
	const op = "api.start_career"
	var req careerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	state, err := h.deps.StartNewGame(r.Context(), req.path())
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// HandleUpdateProfile handles PUT /profile requests.
func (h *GameHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_profile"
	var profile game.PlayerProfile
	if err := decodeJSON(w, r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	state, err := h.deps.UpdateProfile(r.Context(), profile)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleUpdateAgency handles PUT /agency requests.
func (h *GameHandler) HandleUpdateAgency(w http.ResponseWriter, r *http.Request) {
	const op = "api.update_agency"
	var info game.AgencyInfo
	if err := decodeJSON(w, r, &info); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	state, err := h.deps.UpdateAgency(r.Context(), info)
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleListAgencies handles GET /agencies requests.
func (h *GameHandler) HandleListAgencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ListAgencies(r.Context()))
}

// HandleGetProgress handles GET /progress requests.
func (h *GameHandler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.deps.Progress()
	if err != nil {
		fail(w, "api.get_progress", err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
