package repo

import (
	"context"

	"wish-wall-server/internal/model"

	"gorm.io/gorm"
)

type WishRepository struct {
	db *gorm.DB
}

func (r *WishRepository) Create(ctx context.Context, wish *model.Wish) error {
	return r.db.WithContext(ctx).Create(wish).Error
}

// List 按 id 升序返回全部心愿
func (r *WishRepository) List(ctx context.Context) ([]model.Wish, error) {
	wishes := make([]model.Wish, 0)
	if err := r.db.WithContext(ctx).Order("id asc").Find(&wishes).Error; err != nil {
		return nil, err
	}
	return wishes, nil
}

// DeleteByID 删除指定心愿；id 不存在时不视为错误，返回受影响行数 0
func (r *WishRepository) DeleteByID(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Wish{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *WishRepository) FindByID(ctx context.Context, id uint) (*model.Wish, error) {
	var wish model.Wish
	if err := r.db.WithContext(ctx).First(&wish, id).Error; err != nil {
		return nil, err
	}
	return &wish, nil
}
