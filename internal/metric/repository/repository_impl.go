package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/insightrow/sheetsync/internal/metric/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var naturalKeyColumns = []clause.Column{
	{Name: "tenant_id"},
	{Name: "date"},
	{Name: "medium"},
	{Name: "source"},
	{Name: "campaign"},
	{Name: "location"},
	{Name: "user_name"},
	{Name: "service_person"},
}

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, record *domain.MetricRecord) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: naturalKeyColumns,
			DoUpdates: clause.AssignmentColumns([]string{
				"leads",
				"consults",
				"sales",
				"spend",
				"roas",
				"leads_to_consult_rate",
				"leads_to_sale_rate",
				"raw_data",
				"updated_at",
			}),
		}).
		Create(record).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.MetricRecord, error) {
	var records []*domain.MetricRecord
	stmt := db.WithContext(ctx).
		Model(&domain.MetricRecord{}).
		Where("tenant_id = ?", filter.TenantID)
	if filter.From != nil {
		stmt = stmt.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		stmt = stmt.Where("date <= ?", filter.To.UTC())
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	err := stmt.
		Order("date desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) CountByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.MetricRecord{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}
