package sheets

import "go.uber.org/fx"

var Module = fx.Module("sheets",
	fx.Provide(NewFactory),
)
