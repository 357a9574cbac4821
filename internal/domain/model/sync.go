// Package model contains domain models passed between layers.
package model

import "time"

// SyncOp names a remote sync operation.
type SyncOp string

// Remote sync operations.
const (
	SyncSelectAgency SyncOp = "select_agency"
	SyncCreateAgency SyncOp = "create_agency"
	SyncTouchProfile SyncOp = "touch_profile"
)

// SyncTask is one best-effort push of local progress to the remote
// profile/agency service. Only the fields of its Op are meaningful.
type SyncTask struct {
	ID          string    // unique id, for logs
	Op          SyncOp    // what to push
	Agency      string    // agency name for select/create
	Description string    // custom agency description
	LastPlayed  int64     // unix milliseconds for touch_profile
	Enqueued    time.Time // when the task was queued
}

// Valid reports whether t names a known operation with its required fields.
func (t SyncTask) Valid() bool {
	switch t.Op {
	case SyncSelectAgency, SyncCreateAgency:
		return t.Agency != ""
	case SyncTouchProfile:
		return t.LastPlayed > 0
	default:
		return false
	}
}
