// Package media stores captured binary assets keyed by generated ids.
// Game state keeps only the ids.
package media

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/okian/debut/pkg/logger"
	"github.com/okian/debut/pkg/metrics"
)

// Known media kinds.
const (
	KindPhoto = "photo"
	KindAudio = "audio"
	KindVideo = "video"
)

const (
	suffixLen   = 9
	suffixRadix = 36
)

// Record is one stored blob. Timestamp is Unix milliseconds.
type Record struct {
	ID        string
	Blob      []byte
	Type      string
	Timestamp int64
}

// Backend persists records keyed by id.
type Backend interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, id string) (Record, bool, error)
	Delete(ctx context.Context, id string) error
}

// Store generates ids and delegates persistence to a Backend. Backend
// errors are returned to the caller unchanged in kind; nothing is retried.
type Store struct {
	backend Backend
	now     func() time.Time
	logger  logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStore creates a media store over backend.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  logger.Nop(),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // id suffix, not a secret
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save persists blob under a new id of the form kind_unixMillis_suffix.
func (s *Store) Save(ctx context.Context, blob []byte, kind string) (string, error) {
	if err := ValidateKind(kind); err != nil {
		return "", err
	}
	now := s.now()
	rec := Record{
		ID:        s.newID(kind, now),
		Blob:      blob,
		Type:      kind,
		Timestamp: now.UnixMilli(),
	}
	if err := s.backend.Put(ctx, rec); err != nil {
		metrics.RecordMediaError("save")
		s.logger.Error(ctx, "failed to save media", logger.String("kind", kind), logger.Int("bytes", len(blob)), logger.Error(err))
		return "", fmt.Errorf("save media %s: %w", rec.ID, err)
	}
	metrics.RecordMediaSaved(kind, len(blob))
	return rec.ID, nil
}

// Load returns the blob for id, or ok=false when it does not exist.
func (s *Store) Load(ctx context.Context, id string) ([]byte, bool, error) {
	rec, ok, err := s.LoadRecord(ctx, id)
	if err != nil || !ok {
		return nil, ok, err
	}
	return rec.Blob, true, nil
}

// LoadRecord returns the full record for id.
func (s *Store) LoadRecord(ctx context.Context, id string) (Record, bool, error) {
	rec, ok, err := s.backend.Get(ctx, id)
	if err != nil {
		metrics.RecordMediaError("load")
		return Record{}, false, fmt.Errorf("load media %s: %w", id, err)
	}
	return rec, ok, nil
}

// Delete removes id. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		metrics.RecordMediaError("delete")
		return fmt.Errorf("delete media %s: %w", id, err)
	}
	return nil
}

func (s *Store) newID(kind string, now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var b strings.Builder
	b.Grow(len(kind) + 1 + 13 + 1 + suffixLen)
	b.WriteString(kind)
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	for i := 0; i < suffixLen; i++ {
		b.WriteString(strconv.FormatInt(int64(s.rng.Intn(suffixRadix)), suffixRadix))
	}
	return b.String()
}

// ValidateKind accepts non-empty lowercase alphanumeric kinds.
func ValidateKind(kind string) error {
	if kind == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKind)
	}
	for _, r := range kind {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
		}
	}
	return nil
}

// KindOf returns the kind prefix of a generated id.
func KindOf(id string) string {
	kind, _, ok := strings.Cut(id, "_")
	if !ok {
		return ""
	}
	return kind
}
