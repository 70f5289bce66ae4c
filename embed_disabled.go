//go:build !embed

package main

import (
	"io/fs"
	"os"

	"wish-wall-server/internal/config"
)

// GetFrontendAssets 从 server.static_dir 读取前端文件，目录不存在时返回 nil
// 编译时 不带 tags 就会走这里
func GetFrontendAssets() fs.FS {
	dir := config.Get().Server.StaticDir
	if dir == "" {
		return nil
	}
	if stat, err := os.Stat(dir); err != nil || !stat.IsDir() {
		return nil
	}
	return os.DirFS(dir)
}
