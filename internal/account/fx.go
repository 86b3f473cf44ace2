package account

import (
	accountservice "github.com/jakub-pelec/teacherspace-cf/internal/account/service"
	"go.uber.org/fx"
)

var Module = fx.Module("account.service",
	fx.Provide(accountservice.New),
)
