// Package service holds the current game snapshot and implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/debut/internal/adapters/media"
	"github.com/okian/debut/internal/adapters/remote"
	"github.com/okian/debut/internal/adapters/repository"
	"github.com/okian/debut/internal/domain/agency"
	"github.com/okian/debut/internal/domain/game"
	"github.com/okian/debut/internal/domain/judging"
	"github.com/okian/debut/internal/domain/model"
	"github.com/okian/debut/pkg/logger"
	"github.com/okian/debut/pkg/metrics"
)

// StateStore persists the single game record. Implementations never fail
// loudly; see repository.StateStore.
type StateStore interface {
	Load(ctx context.Context) (game.GameState, bool)
	Save(ctx context.Context, state game.GameState)
	Reset(ctx context.Context)
	CreateEmpty() game.GameState
}

// MediaStore persists captured blobs.
type MediaStore interface {
	Save(ctx context.Context, blob []byte, kind string) (string, error)
	Load(ctx context.Context, id string) ([]byte, bool, error)
	Delete(ctx context.Context, id string) error
}

// Outbox accepts remote sync tasks for asynchronous delivery. Enqueue
// returns false when the task is refused.
type Outbox interface {
	Enqueue(ctx context.Context, t model.SyncTask) bool
}

// Service owns the current GameState snapshot. Every mutation replaces the
// snapshot and saves the full record before returning.
type Service struct {
	mu      sync.Mutex
	state   game.GameState
	started bool

	store  StateStore
	scorer judging.Scorer
	media  MediaStore
	remote remote.Client
	syncer *remote.Syncer
	outbox Outbox

	now   func() time.Time
	newID func() string

	logger logger.Logger
}

// New constructs a Service. Without options it runs fully in memory.
func New(opts ...Option) *Service {
	s := &Service{
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.NewStateStore(repository.NewMemoryKV(0), repository.WithClock(s.now))
	}
	if s.scorer == nil {
		s.scorer = judging.NewEngine()
	}
	if s.media == nil {
		s.media = media.NewStore(media.NewMemoryBackend(), media.WithClock(s.now))
	}
	if s.remote != nil {
		s.syncer = remote.NewSyncer(s.remote)
	}
	return s
}

// Start loads the persisted record, or begins with an empty one.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	state, ok := s.store.Load(ctx)
	if !ok {
		state = s.store.CreateEmpty()
	}
	s.state = state
	s.started = true
	metrics.UpdateStoryProgress(state.StoryProgress)

	s.logger.Info(ctx, "game service started",
		logger.Bool("resumed", ok),
		logger.String("careerPath", string(state.CareerPath)),
		logger.Int("storyProgress", state.StoryProgress),
		logger.Bool("remote", s.remote != nil),
	)
	return nil
}

// Stop marks the service stopped. The last committed record is already
// persisted.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "game service stopped")
}

// State returns a copy of the current snapshot.
func (s *Service) State() (game.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return game.GameState{}, ErrNotStarted
	}
	return s.state.Clone(), nil
}

// Progress returns the lightweight progress export.
func (s *Service) Progress() (game.Progress, error) {
	state, err := s.State()
	if err != nil {
		return game.Progress{}, err
	}
	return game.ExportProgress(state), nil
}

// commit replaces the snapshot and saves it. Callers hold s.mu.
func (s *Service) commit(ctx context.Context, next game.GameState) {
	next.LastPlayed = s.now().UnixMilli()
	s.state = next
	s.store.Save(ctx, next)
	metrics.UpdateStoryProgress(next.StoryProgress)
}

// StartNewGame discards all progress and begins a career on path.
func (s *Service) StartNewGame(ctx context.Context, path game.CareerPath) (game.GameState, error) {
	if !path.Valid() {
		return game.GameState{}, fmt.Errorf("%w: %q", game.ErrInvalidCareerPath, path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return game.GameState{}, ErrNotStarted
	}
	s.commit(ctx, game.StartCareer(path, s.now()))
	metrics.RecordCareerStarted(string(path))
	s.logger.Info(ctx, "new career started", logger.String("careerPath", string(path)))
	return s.state.Clone(), nil
}

// ResetGame removes the persisted record and starts over with an empty one.
// Stored media is left alone.
func (s *Service) ResetGame(ctx context.Context) (game.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return game.GameState{}, ErrNotStarted
	}
	s.store.Reset(ctx)
	s.state = s.store.CreateEmpty()
	metrics.UpdateStoryProgress(0)
	s.logger.Info(ctx, "game reset")
	return s.state.Clone(), nil
}

// UpdateProfile validates and stores the player's character.
func (s *Service) UpdateProfile(ctx context.Context, profile game.PlayerProfile) (game.GameState, error) {
	profile.Gender = strings.TrimSpace(profile.Gender)
	profile.Nationality = strings.TrimSpace(profile.Nationality)
	if err := profile.Validate(); err != nil {
		return game.GameState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return game.GameState{}, ErrNotStarted
	}
	s.commit(ctx, s.state.WithProfile(profile))
	return s.state.Clone(), nil
}

// UpdateAgency stores the player's agency. A non-custom choice must name a
// predefined or remotely listed agency; its catalogue description wins.
// The choice is then synced to the remote service on a best-effort basis.
func (s *Service) UpdateAgency(ctx context.Context, info game.AgencyInfo) (game.GameState, error) {
	info.Name = strings.TrimSpace(info.Name)
	info.Description = strings.TrimSpace(info.Description)
	if err := info.Validate(); err != nil {
		return game.GameState{}, err
	}
	if !info.IsCustom {
		found, ok := s.findAgency(ctx, info.Name)
		if !ok {
			return game.GameState{}, fmt.Errorf("%w: %q", ErrUnknownAgency, info.Name)
		}
		info = found.Info()
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return game.GameState{}, ErrNotStarted
	}
	s.commit(ctx, s.state.WithAgency(info))
	out := s.state.Clone()
	s.mu.Unlock()

	s.syncAgency(ctx, info)
	return out, nil
}

func (s *Service) findAgency(ctx context.Context, name string) (agency.Agency, bool) {
	if a, ok := agency.Find(name); ok {
		return a, true
	}
	for _, a := range s.remoteAgencies(ctx) {
		if strings.EqualFold(strings.TrimSpace(a.Name), name) {
			return a, true
		}
	}
	return agency.Agency{}, false
}

func (s *Service) syncAgency(ctx context.Context, info game.AgencyInfo) {
	task := model.SyncTask{Op: model.SyncSelectAgency, Agency: info.Name}
	if info.IsCustom {
		task.Op = model.SyncCreateAgency
		task.Description = info.Description
	}
	s.dispatch(ctx, task)
}

// dispatch hands task to the outbox when one is configured, otherwise
// applies it inline. Failures are logged and never reach the caller.
func (s *Service) dispatch(ctx context.Context, task model.SyncTask) { //nolint:gocritic // hugeParam: tasks travel by value
	if s.syncer == nil {
		return
	}
	task.ID = uuid.NewString()
	task.Enqueued = s.now()
	if s.outbox != nil {
		if !s.outbox.Enqueue(ctx, task) {
			s.logger.Warn(ctx, "remote sync dropped",
				logger.String("taskID", task.ID),
				logger.String("op", string(task.Op)),
			)
		}
		return
	}
	if err := s.syncer.Sync(ctx, task); err != nil {
		s.logger.Warn(ctx, "remote sync failed",
			logger.String("op", string(task.Op)),
			logger.Error(err),
		)
	}
}

// ListAgencies returns the predefined catalogue followed by any agencies
// only the remote service knows.
func (s *Service) ListAgencies(ctx context.Context) []agency.Agency {
	return agency.Merge(agency.Predefined(), s.remoteAgencies(ctx))
}

func (s *Service) remoteAgencies(ctx context.Context) []agency.Agency {
	if s.remote == nil {
		return nil
	}
	list, err := s.remote.ListAgencies(ctx)
	metrics.RecordRemoteCall("list_agencies", err != nil)
	if err != nil {
		s.logger.Warn(ctx, "remote agency list unavailable", logger.Error(err))
		return nil
	}
	return list
}

// AddSubmission validates sub, assigns its id and timestamp, and appends it
// without feedback.
func (s *Service) AddSubmission(ctx context.Context, sub game.SubmissionMetadata) (game.SubmissionMetadata, error) {
	if err := sub.Validate(); err != nil {
		return game.SubmissionMetadata{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return game.SubmissionMetadata{}, ErrNotStarted
	}
	return s.addSubmission(ctx, sub), nil
}

func (s *Service) addSubmission(ctx context.Context, sub game.SubmissionMetadata) game.SubmissionMetadata {
	sub.ID = s.newID()
	for s.state.HasSubmission(sub.ID) {
		sub.ID = s.newID()
	}
	sub.Timestamp = s.now().UnixMilli()
	sub.Feedback = nil
	s.commit(ctx, s.state.AddSubmission(sub))
	metrics.RecordSubmission(string(sub.PerformanceType), string(sub.Difficulty))
	return sub
}

// AttachFeedback attaches fb to the submission with id. An unknown id
// changes nothing.
func (s *Service) AttachFeedback(ctx context.Context, id string, fb game.JudgeFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	s.commit(ctx, s.state.AttachFeedback(id, fb))
	return nil
}

// SubmitPerformance records a performance, scores it and attaches the
// feedback. The returned submission carries the feedback.
func (s *Service) SubmitPerformance(ctx context.Context, sub game.SubmissionMetadata) (game.SubmissionMetadata, error) {
	if err := sub.Validate(); err != nil {
		return game.SubmissionMetadata{}, err
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return game.SubmissionMetadata{}, ErrNotStarted
	}
	added := s.addSubmission(ctx, sub)
	fb := s.scorer.Score(added.PerformanceType, added.Difficulty, added.SelfRating)
	s.commit(ctx, s.state.AttachFeedback(added.ID, fb))
	scored, _ := s.state.FindSubmission(added.ID)
	lastPlayed := s.state.LastPlayed
	s.mu.Unlock()

	metrics.ObserveOverallScore(string(scored.Difficulty), fb.OverallScore)
	s.logger.Info(ctx, "performance judged",
		logger.String("submissionID", scored.ID),
		logger.String("performanceType", string(scored.PerformanceType)),
		logger.String("difficulty", string(scored.Difficulty)),
		logger.Int("selfRating", scored.SelfRating),
		logger.Int("overallScore", fb.OverallScore),
	)

	s.dispatch(ctx, model.SyncTask{Op: model.SyncTouchProfile, LastPlayed: lastPlayed})
	return scored, nil
}

// Submissions returns the submission history, newest first.
func (s *Service) Submissions() ([]game.SubmissionMetadata, error) {
	state, err := s.State()
	if err != nil {
		return nil, err
	}
	out := make([]game.SubmissionMetadata, 0, len(state.Submissions))
	for i := len(state.Submissions) - 1; i >= 0; i-- {
		out = append(out, state.Submissions[i])
	}
	return out, nil
}

// Submission returns one submission by id.
func (s *Service) Submission(id string) (game.SubmissionMetadata, error) {
	state, err := s.State()
	if err != nil {
		return game.SubmissionMetadata{}, err
	}
	sub, ok := state.FindSubmission(id)
	if !ok {
		return game.SubmissionMetadata{}, fmt.Errorf("%w: %q", ErrSubmissionNotFound, id)
	}
	return sub, nil
}

// RemoteProfile fetches the caller's remote profile. It returns nil when
// the service has none.
func (s *Service) RemoteProfile(ctx context.Context) (*remote.Profile, error) {
	if s.remote == nil {
		return nil, ErrRemoteDisabled
	}
	p, err := s.remote.GetProfile(ctx)
	metrics.RecordRemoteCall("get_profile", err != nil)
	return p, err
}

// SaveRemoteProfile stores the caller's display name remotely, stamped with
// the local lastPlayed.
func (s *Service) SaveRemoteProfile(ctx context.Context, name string) (remote.Profile, error) {
	if s.remote == nil {
		return remote.Profile{}, ErrRemoteDisabled
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return remote.Profile{}, fmt.Errorf("%w: missing name", ErrInvalidAccount)
	}
	state, err := s.State()
	if err != nil {
		return remote.Profile{}, err
	}
	lastPlayed := state.LastPlayed
	p := remote.Profile{Name: name, LastPlayed: &lastPlayed}
	err = s.remote.SaveProfile(ctx, p)
	metrics.RecordRemoteCall("save_profile", err != nil)
	if err != nil {
		return remote.Profile{}, err
	}
	return p, nil
}

// SaveMedia stores blob and returns its reference id.
func (s *Service) SaveMedia(ctx context.Context, blob []byte, kind string) (string, error) {
	return s.media.Save(ctx, blob, kind)
}

// LoadMedia returns the blob stored under id.
func (s *Service) LoadMedia(ctx context.Context, id string) ([]byte, error) {
	blob, ok, err := s.media.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMediaNotFound, id)
	}
	return blob, nil
}

// DeleteMedia removes the blob stored under id.
func (s *Service) DeleteMedia(ctx context.Context, id string) error {
	return s.media.Delete(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]interface{}{
		"started":       s.started,
		"remoteEnabled": s.remote != nil,
	}
	if s.started {
		stats["careerPath"] = string(s.state.CareerPath)
		stats["hasExistingGame"] = s.state.HasExistingGame()
		stats["storyProgress"] = s.state.StoryProgress
		stats["submissions"] = len(s.state.Submissions)
		stats["lastPlayed"] = s.state.LastPlayed
	}
	return stats
}
