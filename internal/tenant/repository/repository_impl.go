package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/insightrow/sheetsync/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, is_sensitive, created_at, updated_at
		 FROM tenants WHERE id = ?`,
		id,
	).Scan(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID == 0 {
		return nil, nil
	}
	return &tenant, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, slug, is_sensitive, created_at, updated_at
		 FROM tenants WHERE slug = ?`,
		slug,
	).Scan(&tenant).Error
	if err != nil {
		return nil, err
	}
	if tenant.ID == 0 {
		return nil, nil
	}
	return &tenant, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]*domain.Tenant, error) {
	var tenants []*domain.Tenant
	err := db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Order("created_at asc, id asc").
		Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}
