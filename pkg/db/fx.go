package db

import (
	"github.com/insightrow/sheetsync/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Open connects to the configured database.
func Open(cfg config.Config) (*gorm.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(dialect, &gorm.Config{})
}

// Module provides the gorm database handle.
var Module = fx.Module("db",
	fx.Provide(Open),
)
