package di

import (
	"testing"

	"wish-wall-server/internal/config"
	"wish-wall-server/internal/testutils"
)

// 测试内容：验证依赖注入能组装出完整的应用对象。
func TestInitializeApplication(t *testing.T) {
	gdb := testutils.SetupDB(t)

	app, err := InitializeApplication(gdb, nil, config.Config{
		Image: config.ImageConfig{Width: 300, Height: 300, JPEGQuality: 90},
	})
	if err != nil {
		t.Fatalf("组装应用失败: %v", err)
	}
	if app.Router == nil || app.Modules == nil || app.Modules.Wish == nil {
		t.Fatalf("应用对象未完整初始化: %+v", app)
	}
	if app.Modules.Wish.Handler == nil || app.Modules.Wish.Service == nil {
		t.Fatalf("心愿模块未完整初始化")
	}
}
