package service

import (
	"context"
	"errors"
	"testing"

	"wish-wall-server/internal/config"
	"wish-wall-server/internal/model"
	modulerepo "wish-wall-server/internal/modules/wish/repo"
	"wish-wall-server/internal/testutils"
	"wish-wall-server/internal/utils"
)

var errDiskIO = errors.New("disk I/O error")

func newTestNormalizer() *utils.ImageNormalizer {
	return utils.NewImageNormalizer(config.ImageConfig{Width: 300, Height: 300, JPEGQuality: 90})
}

func setupTestService(t *testing.T) (*Service, modulerepo.WishStore) {
	t.Helper()
	store := modulerepo.NewWishRepository(testutils.SetupDB(t))
	return New(store, newTestNormalizer()), store
}

// failingStore 所有操作都返回存储错误
type failingStore struct {
	creates int
}

func (f *failingStore) Create(context.Context, *model.Wish) error {
	f.creates++
	return errDiskIO
}

func (f *failingStore) List(context.Context) ([]model.Wish, error) {
	return nil, errDiskIO
}

func (f *failingStore) DeleteByID(context.Context, uint) (int64, error) {
	return 0, errDiskIO
}

func (f *failingStore) FindByID(context.Context, uint) (*model.Wish, error) {
	return nil, errDiskIO
}

type failingNormalizer struct{}

func (failingNormalizer) Normalize([]byte) ([]byte, string, error) {
	return nil, "", errors.New("resize failed")
}
