package account

import (
	"github.com/casekit/lexbill/internal/account/repository"
	"github.com/casekit/lexbill/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
