package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"wish-wall-server/internal/config"
	"wish-wall-server/internal/model"
	modulerepo "wish-wall-server/internal/modules/wish/repo"
	wishservice "wish-wall-server/internal/modules/wish/service"
	"wish-wall-server/internal/testutils"
	"wish-wall-server/internal/utils"

	"github.com/gin-gonic/gin"
)

func newTestEngine(t *testing.T, store modulerepo.WishStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if store == nil {
		store = modulerepo.NewWishRepository(testutils.SetupDB(t))
	}
	normalizer := utils.NewImageNormalizer(config.ImageConfig{Width: 300, Height: 300, JPEGQuality: 90})
	h := New(wishservice.New(store, normalizer))

	r := gin.New()
	r.POST("/upload", h.UploadWish)
	r.GET("/wishes", h.ListWishes)
	r.GET("/wishes/:id/image", h.GetWishImage)
	r.DELETE("/delete/:id", h.DeleteWish)
	return r
}

func multipartBody(t *testing.T, name, wish, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("name", name)
	_ = w.WriteField("wish", wish)
	if data != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
		hdr.Set("Content-Type", contentType)
		part, err := w.CreatePart(hdr)
		if err != nil {
			t.Fatalf("创建 multipart part 失败: %v", err)
		}
		_, _ = part.Write(data)
	}
	_ = w.Close()
	return &body, w.FormDataContentType()
}

func doUpload(t *testing.T, r *gin.Engine, name, wish, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, name, wish, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doRequest(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

var errDiskIO = errors.New("disk I/O error")

type failingStore struct{}

func (failingStore) Create(context.Context, *model.Wish) error           { return errDiskIO }
func (failingStore) List(context.Context) ([]model.Wish, error)          { return nil, errDiskIO }
func (failingStore) DeleteByID(context.Context, uint) (int64, error)     { return 0, errDiskIO }
func (failingStore) FindByID(context.Context, uint) (*model.Wish, error) { return nil, errDiskIO }
