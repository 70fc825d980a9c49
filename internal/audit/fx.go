package audit

import (
	"github.com/insightrow/sheetsync/internal/audit/repository"
	"github.com/insightrow/sheetsync/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
