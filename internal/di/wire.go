//go:build wireinject
// +build wireinject

package di

import (
	"wish-wall-server/internal/config"
	"wish-wall-server/internal/modules"
	wishrepo "wish-wall-server/internal/modules/wish/repo"
	wishservice "wish-wall-server/internal/modules/wish/service"
	"wish-wall-server/internal/router"
	"wish-wall-server/internal/utils"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func InitializeApplication(gormDB *gorm.DB, redisClient *redis.Client, cfg config.Config) (*Application, error) {
	wire.Build(
		wire.FieldsOf(new(config.Config), "Image"),
		wishrepo.NewWishRepository,
		utils.NewImageNormalizer,
		wire.Bind(new(wishservice.Normalizer), new(*utils.ImageNormalizer)),
		modules.New,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
