package sync

import (
	gosync "sync"

	"github.com/bwmarrin/snowflake"
)

// tenantLocks serializes concurrent sync passes for the same tenant so
// status updates on its data source configs are never interleaved.
// Passes for different tenants proceed independently.
type tenantLocks struct {
	mu    gosync.Mutex
	locks map[snowflake.ID]*gosync.Mutex
}

func newTenantLocks() *tenantLocks {
	return &tenantLocks{locks: map[snowflake.ID]*gosync.Mutex{}}
}

func (l *tenantLocks) lock(id snowflake.ID) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &gosync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
