package service

import (
	"context"
	"errors"

	"wish-wall-server/internal/logger"
	"wish-wall-server/internal/model"
	moduledto "wish-wall-server/internal/modules/wish/dto"
	"wish-wall-server/internal/modules/wish/repo"
	platformservice "wish-wall-server/internal/platform/service"
	"wish-wall-server/internal/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	MsgUploadFailed   = "Failed to upload wish"
	MsgSaveFailed     = "Failed to save wish"
	MsgRetrieveFailed = "Failed to retrieve wishes"
	MsgDeleteFailed   = "Failed to delete wish."
	MsgWishNotFound   = "Wish not found"
)

// Normalizer 将图片规范化为固定尺寸
type Normalizer interface {
	Normalize(data []byte) ([]byte, string, error)
}

type Service struct {
	wishStore  repo.WishStore
	normalizer Normalizer
}

func New(wishStore repo.WishStore, normalizer Normalizer) *Service {
	return &Service{
		wishStore:  wishStore,
		normalizer: normalizer,
	}
}

// CreateWish 校验图片、生成缩略图并写入数据库。
// 缩略图生成成功后才会插入记录，因此不会出现只写入一半的心愿。
// 失败原因放在 ServiceError.Cause 中，由 handler 连同请求 ID 一起记录。
func (s *Service) CreateWish(ctx context.Context, in moduledto.CreateWishInput) (*model.Wish, error) {
	if _, err := utils.ValidateImageUpload(in.Image, in.Filename, in.MimeType); err != nil {
		return nil, platformservice.NewValidationError(err.Error())
	}

	resized, mimeType, err := s.normalizer.Normalize(in.Image)
	if err != nil {
		return nil, platformservice.WrapInternalError(MsgUploadFailed, err)
	}

	wish := &model.Wish{
		Name:     in.Name,
		Wish:     in.Wish,
		Image:    resized,
		MimeType: mimeType,
	}
	if err := s.wishStore.Create(ctx, wish); err != nil {
		return nil, platformservice.WrapInternalError(MsgSaveFailed, err)
	}

	logger.Log.WithFields(logrus.Fields{
		"wish_id": wish.ID,
		"bytes":   len(resized),
	}).Info("心愿已保存")
	return wish, nil
}

// ListWishes 返回全部心愿，空表时返回空切片
func (s *Service) ListWishes(ctx context.Context) ([]moduledto.WishResponse, error) {
	wishes, err := s.wishStore.List(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("查询心愿列表失败")
		return nil, platformservice.WrapInternalError(MsgRetrieveFailed, err)
	}

	resp := make([]moduledto.WishResponse, 0, len(wishes))
	for _, w := range wishes {
		resp = append(resp, moduledto.NewWishResponse(w))
	}
	return resp, nil
}

// DeleteWish 删除心愿；id 不存在同样视为成功
func (s *Service) DeleteWish(ctx context.Context, id uint) error {
	affected, err := s.wishStore.DeleteByID(ctx, id)
	if err != nil {
		logger.Log.WithError(err).WithField("wish_id", id).Error("删除心愿失败")
		return platformservice.WrapInternalError(MsgDeleteFailed, err)
	}
	logger.Log.WithFields(logrus.Fields{
		"wish_id":  id,
		"affected": affected,
	}).Info("心愿已删除")
	return nil
}

// GetWishImage 返回心愿的缩略图记录
func (s *Service) GetWishImage(ctx context.Context, id uint) (*model.Wish, error) {
	wish, err := s.wishStore.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewNotFoundError(MsgWishNotFound)
		}
		logger.Log.WithError(err).WithField("wish_id", id).Error("查询心愿图片失败")
		return nil, platformservice.WrapInternalError(MsgRetrieveFailed, err)
	}
	return wish, nil
}
