// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/debut/internal/adapters/media"
	"github.com/okian/debut/internal/adapters/remote"
	"github.com/okian/debut/internal/adapters/repository"
	service "github.com/okian/debut/internal/app"
	"github.com/okian/debut/internal/domain/agency"
	"github.com/okian/debut/internal/domain/game"
)

const (
	defaultMaxMediaBytes = 32 << 20
	maxJSONBytes         = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GameDependencies
	SubmissionDependencies
	MediaDependencies
	AccountDependencies
}

// GameDependencies covers career, profile and agency operations.
type GameDependencies interface {
	State() (game.GameState, error)
	Progress() (game.Progress, error)
	StartNewGame(ctx context.Context, path game.CareerPath) (game.GameState, error)
	ResetGame(ctx context.Context) (game.GameState, error)
	UpdateProfile(ctx context.Context, profile game.PlayerProfile) (game.GameState, error)
	UpdateAgency(ctx context.Context, info game.AgencyInfo) (game.GameState, error)
	ListAgencies(ctx context.Context) []agency.Agency
}

// SubmissionDependencies covers performance submission and history.
type SubmissionDependencies interface {
	SubmitPerformance(ctx context.Context, sub game.SubmissionMetadata) (game.SubmissionMetadata, error)
	Submissions() ([]game.SubmissionMetadata, error)
	Submission(id string) (game.SubmissionMetadata, error)
}

// MediaDependencies covers blob storage.
type MediaDependencies interface {
	SaveMedia(ctx context.Context, blob []byte, kind string) (string, error)
	LoadMedia(ctx context.Context, id string) ([]byte, error)
	DeleteMedia(ctx context.Context, id string) error
}

// AccountDependencies covers the remote profile.
type AccountDependencies interface {
	RemoteProfile(ctx context.Context) (*remote.Profile, error)
	SaveRemoteProfile(ctx context.Context, name string) (remote.Profile, error)
}

// Server wires HTTP routes for the game API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	gameHandler       *GameHandler
	submissionHandler *SubmissionHandler
	mediaHandler      *MediaHandler
	accountHandler    *AccountHandler
}

// Option applies a configuration option to the Server.
type Option func(*serverConfig)

type serverConfig struct {
	maxMediaBytes int64
}

// WithMaxMediaBytes caps a single media upload.
func WithMaxMediaBytes(n int64) Option {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxMediaBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{maxMediaBytes: defaultMaxMediaBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		gameHandler:       NewGameHandler(deps),
		submissionHandler: NewSubmissionHandler(deps),
		mediaHandler:      NewMediaHandler(deps, cfg.maxMediaBytes),
		accountHandler:    NewAccountHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /state", MetricsMiddleware(s.gameHandler.HandleGetState, "state"))
	mux.HandleFunc("DELETE /state", MetricsMiddleware(s.gameHandler.HandleResetState, "state"))
	mux.HandleFunc("POST /career", MetricsMiddleware(s.gameHandler.HandleStartCareer, "career"))
	mux.HandleFunc("PUT /profile", MetricsMiddleware(s.gameHandler.HandleUpdateProfile, "profile"))
	mux.HandleFunc("PUT /agency", MetricsMiddleware(s.gameHandler.HandleUpdateAgency, "agency"))
	mux.HandleFunc("GET /agencies", MetricsMiddleware(s.gameHandler.HandleListAgencies, "agencies"))
	mux.HandleFunc("GET /progress", MetricsMiddleware(s.gameHandler.HandleGetProgress, "progress"))

	mux.HandleFunc("POST /submissions", MetricsMiddleware(s.submissionHandler.HandleSubmit, "submissions"))
	mux.HandleFunc("GET /submissions", MetricsMiddleware(s.submissionHandler.HandleList, "submissions"))
	mux.HandleFunc("GET /submissions/{id}", MetricsMiddleware(s.submissionHandler.HandleGet, "submission"))

	mux.HandleFunc("POST /media", MetricsMiddleware(s.mediaHandler.HandleUpload, "media"))
	mux.HandleFunc("GET /media/{id}", MetricsMiddleware(s.mediaHandler.HandleGet, "media"))
	mux.HandleFunc("DELETE /media/{id}", MetricsMiddleware(s.mediaHandler.HandleDelete, "media"))

	mux.HandleFunc("GET /account", MetricsMiddleware(s.accountHandler.HandleGet, "account"))
	mux.HandleFunc("PUT /account", MetricsMiddleware(s.accountHandler.HandlePut, "account"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBytes)).Decode(v)
}

// classify maps an upstream error to its API kind.
func classify(err error) error {
	var statusErr *remote.StatusError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, game.ErrInvalidProfile),
		errors.Is(err, game.ErrInvalidAgency),
		errors.Is(err, game.ErrInvalidSubmission),
		errors.Is(err, game.ErrInvalidCareerPath),
		errors.Is(err, service.ErrUnknownAgency),
		errors.Is(err, service.ErrInvalidAccount),
		errors.Is(err, media.ErrInvalidKind):
		return ErrBadRequest
	case errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrMediaNotFound):
		return ErrNotFound
	case errors.As(err, &tooLarge):
		return ErrPayloadTooLarge
	case errors.Is(err, service.ErrNotStarted):
		return ErrUnavailable
	case errors.Is(err, service.ErrRemoteDisabled):
		return ErrNotImplemented
	case errors.Is(err, remote.ErrUnavailable), errors.As(err, &statusErr):
		return ErrUpstream
	case errors.Is(err, repository.ErrQuotaExceeded):
		return ErrInsufficient
	default:
		return ErrInternal
	}
}

// fail writes err with the status and code of its kind.
func fail(w http.ResponseWriter, op string, err error) {
	kind := classify(err)
	status, code := statusFor(kind)
	writeError(w, status, code, WrapKind(op, kind, err))
}

func statusFor(kind error) (int, string) {
	switch {
	case errors.Is(kind, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(kind, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(kind, ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "payload_too_large"
	case errors.Is(kind, ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(kind, ErrNotImplemented):
		return http.StatusNotImplemented, "remote_disabled"
	case errors.Is(kind, ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	case errors.Is(kind, ErrInsufficient):
		return http.StatusInsufficientStorage, "storage_full"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
