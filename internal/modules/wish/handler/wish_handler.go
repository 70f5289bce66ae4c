package handler

import (
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"wish-wall-server/internal/consts"
	"wish-wall-server/internal/logger"
	"wish-wall-server/internal/modules/common/httpx"
	moduledto "wish-wall-server/internal/modules/wish/dto"
	wishservice "wish-wall-server/internal/modules/wish/service"
	platformservice "wish-wall-server/internal/platform/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"
)

// uploadForm multipart/form-data 上传
type uploadForm struct {
	Name  string                `form:"name" binding:"max=100,wishtext"`
	Wish  string                `form:"wish" binding:"max=1000,wishtext"`
	Image *multipart.FileHeader `form:"image" binding:"required"`
}

// uploadJSON JSON 上传，image 为 base64，可带 data:<mime>;base64, 前缀
type uploadJSON struct {
	Name     string `json:"name" binding:"max=100,wishtext"`
	Wish     string `json:"wish" binding:"max=1000,wishtext"`
	Image    string `json:"image" binding:"required"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

// UploadWish POST /upload
func (h *Handler) UploadWish(c *gin.Context) {
	var (
		in  moduledto.CreateWishInput
		err error
	)
	if c.ContentType() == binding.MIMEJSON {
		in, err = bindJSONUpload(c)
	} else {
		in, err = bindMultipartUpload(c)
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload: " + err.Error()})
		return
	}

	wish, err := h.wishService.CreateWish(c.Request.Context(), in)
	if err != nil {
		if se, ok := platformservice.AsServiceError(err); !ok || se.Code == platformservice.ErrorCodeInternal {
			cause := err
			if ok && se.Cause != nil {
				cause = se.Cause
			}
			logger.Log.WithError(cause).WithFields(logrus.Fields{
				"request_id": c.GetString(consts.ContextKeyRequestID),
				"filename":   in.Filename,
			}).Error("Upload failed: " + err.Error())
		}
		httpx.WriteServiceError(c, err, wishservice.MsgUploadFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Wish uploaded successfully",
		"id":      wish.ID,
	})
}

// ListWishes GET /wishes
func (h *Handler) ListWishes(c *gin.Context) {
	wishes, err := h.wishService.ListWishes(c.Request.Context())
	if err != nil {
		httpx.WriteServiceError(c, err, wishservice.MsgRetrieveFailed)
		return
	}
	c.JSON(http.StatusOK, wishes)
}

// DeleteWish DELETE /delete/:id
func (h *Handler) DeleteWish(c *gin.Context) {
	id, ok := parseWishID(c)
	if !ok {
		return
	}

	if err := h.wishService.DeleteWish(c.Request.Context(), id); err != nil {
		httpx.WriteServiceError(c, err, wishservice.MsgDeleteFailed)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wish deleted successfully."})
}

// GetWishImage GET /wishes/:id/image 直接输出缩略图
func (h *Handler) GetWishImage(c *gin.Context) {
	id, ok := parseWishID(c)
	if !ok {
		return
	}

	wish, err := h.wishService.GetWishImage(c.Request.Context(), id)
	if err != nil {
		httpx.WriteServiceError(c, err, wishservice.MsgRetrieveFailed)
		return
	}

	// 心愿创建后不会修改，id 也不会复用
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, wish.MimeType, wish.Image)
}

func parseWishID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wish id"})
		return 0, false
	}
	return uint(id), true
}

func bindMultipartUpload(c *gin.Context) (moduledto.CreateWishInput, error) {
	var form uploadForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		return moduledto.CreateWishInput{}, err
	}

	src, err := form.Image.Open()
	if err != nil {
		return moduledto.CreateWishInput{}, err
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(src)
	if err != nil {
		return moduledto.CreateWishInput{}, err
	}

	return moduledto.CreateWishInput{
		Name:     form.Name,
		Wish:     form.Wish,
		Image:    data,
		Filename: form.Image.Filename,
		MimeType: form.Image.Header.Get("Content-Type"),
	}, nil
}

func bindJSONUpload(c *gin.Context) (moduledto.CreateWishInput, error) {
	var req uploadJSON
	if err := c.ShouldBindJSON(&req); err != nil {
		return moduledto.CreateWishInput{}, err
	}

	data, dataURLMIME, err := decodeImageData(req.Image)
	if err != nil {
		return moduledto.CreateWishInput{}, err
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = dataURLMIME
	}

	return moduledto.CreateWishInput{
		Name:     req.Name,
		Wish:     req.Wish,
		Image:    data,
		Filename: req.Filename,
		MimeType: mimeType,
	}, nil
}

// decodeImageData 解码 base64 图片，支持 data:image/png;base64,xxx 形式并返回其中的 MIME
func decodeImageData(data string) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, "", errors.New("no image data")
	}

	var declared string
	if strings.HasPrefix(data, "data:") {
		header, payload, found := strings.Cut(data, ",")
		if !found {
			return nil, "", errors.New("malformed data URL")
		}
		header = strings.TrimPrefix(header, "data:")
		header = strings.TrimSuffix(header, ";base64")
		declared = header
		data = payload
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", errors.New("image is not valid base64")
	}
	return decoded, declared, nil
}
