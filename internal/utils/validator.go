package utils

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrImageTypeNotAllowed 与原有上传过滤器的提示保持一致
var ErrImageTypeNotAllowed = errors.New("Only .jpeg, .jpg and .png files are allowed!")

// 允许的 MIME 与扩展名
var allowedImageTypes = map[string]map[string]bool{
	"image/jpeg": {".jpg": true, ".jpeg": true},
	"image/png":  {".png": true},
}

var defaultExtByMIME = map[string]string{
	"image/jpeg": ".jpeg",
	"image/png":  ".png",
}

var bindingOnce sync.Once

// RegisterBindingValidators 在 gin 的校验引擎上注册自定义规则：
//   - wishtext: 合法 UTF-8 且不含除换行/制表符以外的控制字符
func RegisterBindingValidators() {
	bindingOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("wishtext", func(fl validator.FieldLevel) bool {
			return IsWishText(fl.Field().String())
		})
	})
}

// IsWishText 判断文本是否可以作为心愿的名字或内容保存
func IsWishText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' {
			continue
		}
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// NormalizeMIME 去掉参数并统一大小写，image/jpg 视为 image/jpeg
func NormalizeMIME(declared string) string {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return ""
	}
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
		declared = mediaType
	}
	declared = strings.ToLower(declared)
	if declared == "image/jpg" || declared == "image/pjpeg" {
		return "image/jpeg"
	}
	return declared
}

// ValidateImageUpload 校验上传图片的声明类型、扩展名与真实内容。
// filename 为空时扩展名由声明的 MIME 推导；declaredMIME 为空时由扩展名推导。
// 返回小写扩展名（如 .jpg）。
func ValidateImageUpload(data []byte, filename, declaredMIME string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("image is required")
	}

	declared := NormalizeMIME(declaredMIME)
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))

	switch {
	case declared == "" && ext == "":
		return "", errors.New("unable to determine image type")
	case declared == "":
		declared = mimeFromExt(ext)
	case ext == "":
		ext = defaultExtByMIME[declared]
	}

	if _, ok := allowedImageTypes[declared]; !ok || !isAllowedExt(ext) {
		return ext, ErrImageTypeNotAllowed
	}

	// 检查文件内容 (Magic Bytes)
	detected := mimetype.Detect(data)
	realExts, ok := allowedImageTypes[NormalizeMIME(detected.String())]
	if !ok {
		return ext, ErrImageTypeNotAllowed
	}
	if !realExts[ext] {
		return ext, fmt.Errorf("image content (%s) does not match extension (%s)", detected.String(), ext)
	}

	return ext, nil
}

func isAllowedExt(ext string) bool {
	for _, exts := range allowedImageTypes {
		if exts[ext] {
			return true
		}
	}
	return false
}

func mimeFromExt(ext string) string {
	for m, exts := range allowedImageTypes {
		if exts[ext] {
			return m
		}
	}
	return ""
}
