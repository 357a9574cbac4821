package api

import (
	"net/http"
	"strings"

	"github.com/okian/debut/internal/domain/game"
)

// SubmissionHandler handles performance submissions and history.
type SubmissionHandler struct {
	deps SubmissionDependencies
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(deps SubmissionDependencies) *SubmissionHandler {
	return &SubmissionHandler{deps: deps}
}

// submissionRequest carries the fields a player supplies; the id,
// timestamp and feedback are assigned by the server.
type submissionRequest struct {
	PerformanceType game.PerformanceType `json:"performanceType"`
	Difficulty      game.Difficulty      `json:"difficulty"`
	SelfRating      int                  `json:"selfRating"`
	VideoMediaID    string               `json:"videoMediaId"`
	AudioMediaID    string               `json:"audioMediaId,omitempty"`
	PhotoMediaID    string               `json:"photoMediaId,omitempty"`
}

func (s submissionRequest) metadata() game.SubmissionMetadata {
	return game.SubmissionMetadata{
		PerformanceType: game.PerformanceType(strings.ToLower(strings.TrimSpace(string(s.PerformanceType)))),
		Difficulty:      game.Difficulty(strings.ToLower(strings.TrimSpace(string(s.Difficulty)))),
		SelfRating:      s.SelfRating,
		VideoMediaID:    strings.TrimSpace(s.VideoMediaID),
		AudioMediaID:    strings.TrimSpace(s.AudioMediaID),
		PhotoMediaID:    strings.TrimSpace(s.PhotoMediaID),
	}
}

// HandleSubmit handles POST /submissions requests.
func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_performance"
	var req submissionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	sub, err := h.deps.SubmitPerformance(r.Context(), req.metadata())
	if err != nil {
		fail(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// HandleList handles GET /submissions requests.
func (h *SubmissionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	subs, err := h.deps.Submissions()
	if err != nil {
		fail(w, "api.list_submissions", err)
		return
	}
	writeJSON(w, http.StatusOK, subs)
}

// HandleGet handles GET /submissions/{id} requests.
func (h *SubmissionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sub, err := h.deps.Submission(r.PathValue("id"))
	if err != nil {
		fail(w, "api.get_submission", err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
