package dto

import (
	"encoding/base64"

	"wish-wall-server/internal/model"
)

// CreateWishInput 上传心愿的统一输入，multipart 与 JSON 请求都会转换为该结构
type CreateWishInput struct {
	Name     string
	Wish     string
	Image    []byte
	Filename string
	MimeType string
}

// WishResponse 列表接口中的心愿，图片以 base64 文本传输
type WishResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Wish      string `json:"wish"`
	Image     string `json:"image"`
	MimeType  string `json:"mime_type"`
	CreatedAt int64  `json:"created_at"`
}

func NewWishResponse(w model.Wish) WishResponse {
	return WishResponse{
		ID:        w.ID,
		Name:      w.Name,
		Wish:      w.Wish,
		Image:     base64.StdEncoding.EncodeToString(w.Image),
		MimeType:  w.MimeType,
		CreatedAt: w.CreatedAt,
	}
}
