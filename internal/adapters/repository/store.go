// Package repository persists the single game-state record over a
// synchronous key-value capability.
package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/okian/debut/internal/domain/game"
	"github.com/okian/debut/pkg/logger"
	"github.com/okian/debut/pkg/metrics"
)

// StateKey is the fixed key the game-state record lives under.
const StateKey = "kpop_idol_game_state"

// Load outcomes reported to metrics.
const (
	outcomeFound           = "found"
	outcomeAbsent          = "absent"
	outcomeCorrupt         = "corrupt"
	outcomeVersionMismatch = "version_mismatch"
	outcomeError           = "error"
)

// KV is a synchronous string key-value store. Get reports a missing key
// with ok=false and a nil error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// StateStore loads, saves and resets the game-state record. Persistence is
// best-effort: no method returns an error.
type StateStore struct {
	kv     KV
	key    string
	now    func() time.Time
	logger logger.Logger
}

// NewStateStore creates a state store over kv.
func NewStateStore(kv KV, opts ...Option) *StateStore {
	s := &StateStore{
		kv:     kv,
		key:    StateKey,
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the persisted record. It reports false when there is no
// record, when it cannot be decoded, or when its version is not current.
func (s *StateStore) Load(ctx context.Context) (game.GameState, bool) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Error(ctx, "failed to load game state", logger.Error(err))
		metrics.RecordStateLoad(outcomeError)
		return game.GameState{}, false
	}
	if !ok || raw == "" {
		metrics.RecordStateLoad(outcomeAbsent)
		return game.GameState{}, false
	}

	var state game.GameState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		s.logger.Error(ctx, "failed to decode game state", logger.Error(err))
		metrics.RecordStateLoad(outcomeCorrupt)
		return game.GameState{}, false
	}
	if state.Version != game.SchemaVersion {
		s.logger.Warn(ctx, "game state version mismatch, resetting",
			logger.Int("found", state.Version),
			logger.Int("want", game.SchemaVersion),
		)
		metrics.RecordStateLoad(outcomeVersionMismatch)
		return game.GameState{}, false
	}
	if state.Submissions == nil {
		state.Submissions = []game.SubmissionMetadata{}
	}
	metrics.RecordStateLoad(outcomeFound)
	return state, true
}

// Save stamps a copy of state with the current version and time and writes
// it. Failures are logged and dropped.
func (s *StateStore) Save(ctx context.Context, state game.GameState) {
	start := time.Now()
	toSave := state.Clone()
	toSave.Version = game.SchemaVersion
	toSave.LastPlayed = s.now().UnixMilli()

	raw, err := json.Marshal(toSave)
	if err != nil {
		s.logger.Error(ctx, "failed to encode game state", logger.Error(err))
		metrics.RecordStateSaveError()
		return
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		s.logger.Error(ctx, "failed to save game state", logger.Error(err), logger.Int("bytes", len(raw)))
		metrics.RecordStateSaveError()
		return
	}
	metrics.RecordStateSave(float64(time.Since(start).Microseconds()) / 1000)
}

// Reset removes the persisted record. Failures are logged and dropped.
func (s *StateStore) Reset(ctx context.Context) {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.logger.Error(ctx, "failed to reset game state", logger.Error(err))
	}
}

// CreateEmpty returns a fresh record stamped with the store's clock.
func (s *StateStore) CreateEmpty() game.GameState {
	return game.NewState(s.now())
}

// Now returns the store's clock reading.
func (s *StateStore) Now() time.Time {
	return s.now()
}
