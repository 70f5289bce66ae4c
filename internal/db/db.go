package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wish-wall-server/internal/config"
	"wish-wall-server/internal/logger"
	"wish-wall-server/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open 根据配置建立数据库连接、配置连接池并同步表结构。
// 返回的 *gorm.DB 由调用方持有，进程退出前调用 Close 释放。
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := newDialector(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("无法获取 sql.DB: %w", err)
	}

	if isSQLite(cfg.Type) {
		// SQLite 单连接写，整个进程复用同一个句柄
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	} else {
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetMaxIdleConns(10)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(gdb); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	logger.Log.WithField("type", dbType(cfg.Type)).Info("✅ 数据库连接成功，表结构已同步")
	return gdb, nil
}

// Migrate 同步所有模型的表结构
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&model.Wish{}); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// Close 关闭底层连接
func Close(gdb *gorm.DB) error {
	if gdb == nil {
		return nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newDialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch dbType(cfg.Type) {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)
		if cfg.SSL {
			dsn += "&tls=true"
		}
		return mysql.Open(dsn), nil
	case "postgres":
		sslMode := "disable"
		if cfg.SSL {
			sslMode = "require"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Name,
			cfg.Port,
			sslMode,
		)
		return postgres.Open(dsn), nil
	default:
		if cfg.Filename == "" {
			return nil, fmt.Errorf("sqlite 数据库文件名不能为空")
		}
		// 自动创建数据库目录
		dbDir := filepath.Dir(cfg.Filename)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("无法创建数据库目录 '%s': %w", dbDir, err)
		}
		// 启用 WAL 模式和繁忙等待，提升 SQLite 并发性能
		dsn := cfg.Filename + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
		return sqlite.Open(dsn), nil
	}
}

func dbType(t string) string {
	switch t {
	case "mysql", "postgres":
		return t
	default:
		return "sqlite"
	}
}

func isSQLite(t string) bool {
	return dbType(t) == "sqlite"
}
