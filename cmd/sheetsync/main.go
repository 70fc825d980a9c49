package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/insightrow/sheetsync/internal/audit"
	"github.com/insightrow/sheetsync/internal/clock"
	"github.com/insightrow/sheetsync/internal/config"
	"github.com/insightrow/sheetsync/internal/datasource"
	"github.com/insightrow/sheetsync/internal/logger"
	"github.com/insightrow/sheetsync/internal/metric"
	"github.com/insightrow/sheetsync/internal/migration"
	"github.com/insightrow/sheetsync/internal/server"
	"github.com/insightrow/sheetsync/internal/sheets"
	syncsvc "github.com/insightrow/sheetsync/internal/sync"
	"github.com/insightrow/sheetsync/internal/tenant"
	"github.com/insightrow/sheetsync/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		tenant.Module,
		datasource.Module,
		metric.Module,
		audit.Module,
		sheets.Module,
		syncsvc.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
