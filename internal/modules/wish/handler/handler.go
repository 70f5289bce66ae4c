package handler

import (
	wishservice "wish-wall-server/internal/modules/wish/service"
	"wish-wall-server/internal/utils"
)

type Handler struct {
	wishService *wishservice.Service
}

func New(wishService *wishservice.Service) *Handler {
	// 上传请求的 binding 标签依赖自定义校验规则
	utils.RegisterBindingValidators()
	return &Handler{wishService: wishService}
}
