package modules

import (
	"wish-wall-server/internal/modules/wish"
	wishrepo "wish-wall-server/internal/modules/wish/repo"
	wishservice "wish-wall-server/internal/modules/wish/service"
)

type AppModules struct {
	Wish *wish.Module
}

func New(wishStore wishrepo.WishStore, normalizer wishservice.Normalizer) *AppModules {
	return &AppModules{
		Wish: wish.New(wishStore, normalizer),
	}
}
