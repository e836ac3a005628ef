package leadscore

import (
	"github.com/casekit/lexbill/internal/leadscore/service"
	"go.uber.org/fx"
)

var Module = fx.Module("leadscore.service",
	fx.Provide(service.New),
)
