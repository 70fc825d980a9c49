package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	TenantID snowflake.ID
	From     *time.Time
	To       *time.Time
	Limit    int
}

type Repository interface {
	// Upsert writes the record keyed by its composite natural key:
	// update if the key exists, insert otherwise. Repeated upserts with
	// identical input converge to the same stored row.
	Upsert(ctx context.Context, db *gorm.DB, record *MetricRecord) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*MetricRecord, error)
	CountByTenant(ctx context.Context, db *gorm.DB, tenantID snowflake.ID) (int64, error)
}
