package ledesconfig

import (
	"github.com/casekit/lexbill/internal/ledesconfig/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledesconfig.service",
	fx.Provide(service.New),
)
