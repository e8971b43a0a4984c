package plandraft

import (
	"github.com/railzwaylabs/storefront/internal/plandraft/repository"
	"github.com/railzwaylabs/storefront/internal/plandraft/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plandraft.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
