package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/insightrow/sheetsync/internal/audit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`INSERT INTO audit_logs (id, tenant_id, action, details, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID,
		entry.TenantID,
		entry.Action,
		entry.Details,
		entry.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, tenantID snowflake.ID, limit int) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	stmt := db.WithContext(ctx).
		Model(&domain.AuditLog{}).
		Where("tenant_id = ?", tenantID).
		Order("created_at desc, id desc")
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}
	if err := stmt.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
