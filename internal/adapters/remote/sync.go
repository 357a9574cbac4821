package remote

import (
	"context"
	"fmt"

	"github.com/okian/debut/internal/domain/model"
	"github.com/okian/debut/pkg/metrics"
)

// Syncer applies sync tasks to a Client.
type Syncer struct {
	client Client
}

// NewSyncer returns a Syncer over c.
func NewSyncer(c Client) *Syncer {
	return &Syncer{client: c}
}

// Sync pushes one task. A touch_profile task is a no-op when no remote
// profile exists yet.
func (s *Syncer) Sync(ctx context.Context, t model.SyncTask) error { //nolint:gocritic // hugeParam: tasks travel by value
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTask, t.Op)
	}
	switch t.Op {
	case model.SyncSelectAgency:
		err := s.client.SelectAgency(ctx, t.Agency)
		metrics.RecordRemoteCall("select_agency", err != nil)
		return err
	case model.SyncCreateAgency:
		err := s.client.CreateAgency(ctx, t.Agency, t.Description)
		metrics.RecordRemoteCall("create_agency", err != nil)
		return err
	default:
		return s.touchProfile(ctx, t.LastPlayed)
	}
}

func (s *Syncer) touchProfile(ctx context.Context, lastPlayed int64) error {
	p, err := s.client.GetProfile(ctx)
	metrics.RecordRemoteCall("get_profile", err != nil)
	if err != nil || p == nil {
		return err
	}
	p.LastPlayed = &lastPlayed
	err = s.client.SaveProfile(ctx, *p)
	metrics.RecordRemoteCall("save_profile", err != nil)
	return err
}
