package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/insightrow/sheetsync/internal/datasource/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cfg *domain.DataSourceConfig) error {
	if cfg.SyncStatus == "" {
		cfg.SyncStatus = domain.SyncStatusPending
	}
	return db.WithContext(ctx).Create(cfg).Error
}

func (r *repo) FindByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) ([]*domain.DataSourceConfig, error) {
	var configs []*domain.DataSourceConfig
	err := db.WithContext(ctx).
		Model(&domain.DataSourceConfig{}).
		Where("tenant_id = ?", tenantID).
		Order("created_at asc, id asc").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repo) FindByStatus(ctx context.Context, db *gorm.DB, statuses []domain.SyncStatus) ([]*domain.DataSourceConfig, error) {
	var configs []*domain.DataSourceConfig
	err := db.WithContext(ctx).
		Model(&domain.DataSourceConfig{}).
		Where("sync_status IN ?", statuses).
		Order("created_at asc, id asc").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repo) MarkSyncing(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, now time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE data_source_configs
		 SET sync_status = ?, updated_at = ?
		 WHERE tenant_id = ?`,
		domain.SyncStatusSyncing,
		now,
		tenantID,
	).Error
}

func (r *repo) MarkSucceeded(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE data_source_configs
		 SET sync_status = ?, last_synced_at = ?, last_error = NULL, updated_at = ?
		 WHERE id = ? AND sync_status = ?`,
		domain.SyncStatusSuccess,
		now,
		now,
		id,
		domain.SyncStatusSyncing,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *repo) MarkFailed(ctx context.Context, db *gorm.DB, id snowflake.ID, message string, now time.Time) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE data_source_configs
		 SET sync_status = ?, last_error = ?, updated_at = ?
		 WHERE id = ? AND sync_status = ?`,
		domain.SyncStatusFailed,
		message,
		now,
		id,
		domain.SyncStatusSyncing,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}
