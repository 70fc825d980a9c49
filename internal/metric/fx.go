package metric

import (
	"github.com/insightrow/sheetsync/internal/metric/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("metric",
	fx.Provide(repository.Provide),
)
