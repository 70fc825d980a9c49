package migration

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/insightrow/sheetsync/internal/audit/domain"
	"github.com/insightrow/sheetsync/internal/config"
	datasourcedomain "github.com/insightrow/sheetsync/internal/datasource/domain"
	metricdomain "github.com/insightrow/sheetsync/internal/metric/domain"
	"github.com/insightrow/sheetsync/internal/seed"
	tenantdomain "github.com/insightrow/sheetsync/internal/tenant/domain"
)

var Module = fx.Module("migration",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := run(conn, cfg); err != nil {
			log.Error("failed to run migrations", zap.Error(err))
			return err
		}

		if cfg.BootstrapDemo {
			if err := seed.EnsureDemoTenants(conn, node, log.Named("seed")); err != nil {
				log.Error("failed to seed demo tenants", zap.Error(err))
				return err
			}
		}
		return nil
	}),
)

func run(conn *gorm.DB, cfg config.Config) error {
	if cfg.DBType == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}

	// sqlite is a dev convenience, gorm owns the schema there.
	return conn.AutoMigrate(
		&tenantdomain.Tenant{},
		&datasourcedomain.DataSourceConfig{},
		&metricdomain.MetricRecord{},
		&auditdomain.AuditLog{},
	)
}
