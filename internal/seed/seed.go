package seed

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	datasourcedomain "github.com/insightrow/sheetsync/internal/datasource/domain"
	tenantdomain "github.com/insightrow/sheetsync/internal/tenant/domain"
)

type demoTenant struct {
	name          string
	sensitive     bool
	spreadsheetID string
	label         string
	tabNames      []string
}

var demoTenants = []demoTenant{
	{
		name:          "Acme Consulting",
		sensitive:     false,
		spreadsheetID: "demo-acme-metrics",
		label:         "Acme marketing metrics",
		tabNames:      []string{"Sheet1"},
	},
	{
		name:          "HealthCare Partners",
		sensitive:     true,
		spreadsheetID: "demo-healthcare-metrics",
		label:         "HealthCare patient acquisition",
		tabNames:      []string{"Sheet1"},
	},
}

// EnsureDemoTenants creates the demo tenants and their data source
// configs when they are missing. Safe to run on every boot.
func EnsureDemoTenants(conn *gorm.DB, node *snowflake.Node, log *zap.Logger) error {
	for _, demo := range demoTenants {
		if err := ensureTenant(conn, node, log, demo); err != nil {
			return err
		}
	}
	return nil
}

func ensureTenant(conn *gorm.DB, node *snowflake.Node, log *zap.Logger, demo demoTenant) error {
	tenantSlug := slug.Make(demo.name)

	var tenant tenantdomain.Tenant
	err := conn.Where("slug = ?", tenantSlug).First(&tenant).Error
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		now := time.Now().UTC()
		tenant = tenantdomain.Tenant{
			ID:          node.Generate(),
			Name:        demo.name,
			Slug:        tenantSlug,
			IsSensitive: demo.sensitive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := conn.Create(&tenant).Error; err != nil {
			return err
		}
		log.Info("seeded demo tenant",
			zap.String("slug", tenantSlug),
			zap.Bool("is_sensitive", demo.sensitive),
		)
	default:
		return err
	}

	var count int64
	if err := conn.Model(&datasourcedomain.DataSourceConfig{}).
		Where("tenant_id = ?", tenant.ID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	cfg := datasourcedomain.DataSourceConfig{
		ID:            node.Generate(),
		TenantID:      tenant.ID,
		SpreadsheetID: demo.spreadsheetID,
		Label:         demo.label,
		TabNames:      datatypes.NewJSONSlice(demo.tabNames),
		SyncStatus:    datasourcedomain.SyncStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := conn.Create(&cfg).Error; err != nil {
		return err
	}
	log.Info("seeded demo data source",
		zap.String("tenant_slug", tenantSlug),
		zap.String("spreadsheet_id", demo.spreadsheetID),
	)
	return nil
}
