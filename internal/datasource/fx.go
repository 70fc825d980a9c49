package datasource

import (
	"github.com/insightrow/sheetsync/internal/datasource/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("datasource",
	fx.Provide(repository.Provide),
)
