package consts

const (
	ApplicationName    = "Wish Wall Server"
	ApplicationVersion = "v1.0.0"
)

const (
	// ContextKeyRequestID gin.Context 中保存请求 ID 的键
	ContextKeyRequestID = "request_id"

	// HeaderRequestID 请求 ID 的 HTTP 头
	HeaderRequestID = "X-Request-ID"
)
