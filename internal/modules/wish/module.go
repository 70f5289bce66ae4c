package wish

import (
	"wish-wall-server/internal/modules/wish/handler"
	"wish-wall-server/internal/modules/wish/repo"
	"wish-wall-server/internal/modules/wish/service"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(wishStore repo.WishStore, normalizer service.Normalizer) *Module {
	moduleService := service.New(wishStore, normalizer)
	moduleHandler := handler.New(moduleService)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
