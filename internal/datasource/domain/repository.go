package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cfg *DataSourceConfig) error
	FindByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*DataSourceConfig, error)
	FindByStatus(ctx context.Context, db *gorm.DB, statuses []SyncStatus) ([]*DataSourceConfig, error)

	// MarkSyncing moves every config belonging to the tenant into SYNCING.
	// Legal from any state.
	MarkSyncing(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, now time.Time) error

	// MarkSucceeded settles a SYNCING config into SUCCESS, stamps
	// last_synced_at and clears last_error. Returns ErrInvalidTransition
	// if the config was not SYNCING.
	MarkSucceeded(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error

	// MarkFailed settles a SYNCING config into FAILED and stamps
	// last_error. Returns ErrInvalidTransition if the config was not
	// SYNCING.
	MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, message string, now time.Time) error
}
