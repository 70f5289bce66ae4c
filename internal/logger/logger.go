package logger

import (
	"os"
	"strings"

	"wish-wall-server/internal/config"

	"github.com/sirupsen/logrus"
)

// Log 全局日志实例；未调用 Init 前使用默认的 Info 级别文本输出
var Log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stdout
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// Init 按配置设置日志级别与输出格式
func Init(cfg config.LogConfig) {
	if strings.EqualFold(cfg.Format, "json") {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		Log.WithField("level", cfg.Level).Warn("未知的日志级别，使用 info")
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
