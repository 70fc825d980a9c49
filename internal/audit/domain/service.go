package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Actions emitted by the sync core.
const (
	ActionRedactionApplied = "redaction.applied"
	ActionSyncCompleted    = "sync.completed"
	ActionSyncFailed       = "sync.failed"
)

var ErrInvalidAction = errors.New("invalid_action")

// Service records audit entries. Record is fire-and-forget from callers'
// perspective: a write failure is logged, never fatal to the caller's
// work.
type Service interface {
	Record(ctx context.Context, tenantID snowflake.ID, action string, details map[string]any) error
	List(ctx context.Context, tenantID snowflake.ID, limit int) ([]AuditLog, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, limit int) ([]*AuditLog, error)
}
