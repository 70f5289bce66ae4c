package repo

import (
	"context"

	"wish-wall-server/internal/model"

	"gorm.io/gorm"
)

// WishStore 心愿表的持久化接口
type WishStore interface {
	Create(ctx context.Context, wish *model.Wish) error
	List(ctx context.Context) ([]model.Wish, error)
	DeleteByID(ctx context.Context, id uint) (int64, error)
	FindByID(ctx context.Context, id uint) (*model.Wish, error)
}

func NewWishRepository(db *gorm.DB) WishStore {
	return &WishRepository{db: db}
}
