package domain

import "errors"

// SyncStatus is the lifecycle state of a data source config. The machine
// cycles: any state may re-enter SYNCING on a new sync attempt, and only a
// SYNCING source may settle into SUCCESS or FAILED. There is no terminal
// state; every config stays eligible for resync.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "PENDING"
	SyncStatusSyncing SyncStatus = "SYNCING"
	SyncStatusSuccess SyncStatus = "SUCCESS"
	SyncStatusFailed  SyncStatus = "FAILED"
)

var ErrInvalidTransition = errors.New("invalid_sync_status_transition")

func (s SyncStatus) Valid() bool {
	switch s {
	case SyncStatusPending, SyncStatusSyncing, SyncStatusSuccess, SyncStatusFailed:
		return true
	default:
		return false
	}
}

// CanTransition reports whether a config may move from one status to
// another during a sync pass.
func CanTransition(from, to SyncStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	switch to {
	case SyncStatusSyncing:
		return true
	case SyncStatusSuccess, SyncStatusFailed:
		return from == SyncStatusSyncing
	default:
		return false
	}
}
