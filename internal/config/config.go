package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// 用于管理应用配置
// 加载阶段 logger 尚未初始化，这里的输出使用标准库 log

var (
	// 使用 atomic.Value 存储 *Config，实现无锁读取
	appConfig atomic.Value
	configMu  sync.Mutex // 仅用于写操作互斥
	configDir = "config"
)

// EnvPrefix 环境变量前缀，例如 server.port 对应 WISH_WALL_SERVER_PORT
const EnvPrefix = "WISH_WALL"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Image     ImageConfig     `mapstructure:"image"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Static    StaticConfig    `mapstructure:"static"`
}

type ServerConfig struct {
	Port           string `mapstructure:"port"`
	Mode           string `mapstructure:"mode"`
	StaticDir      string `mapstructure:"static_dir"`
	TrustedProxies string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	Type     string `mapstructure:"type"`     // sqlite, mysql, postgres
	Filename string `mapstructure:"filename"` // for sqlite
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"` // database name
	SSL      bool   `mapstructure:"ssl"`  // enable TLS/SSL
}

type UploadConfig struct {
	MaxSizeMB int `mapstructure:"max_size_mb"`
}

// ImageConfig 缩略图尺寸与编码参数
type ImageConfig struct {
	Width       int `mapstructure:"width"`
	Height      int `mapstructure:"height"`
	JPEGQuality int `mapstructure:"jpeg_quality"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
}

type StaticConfig struct {
	CacheControl string `mapstructure:"cache_control"`
}

// Get 获取当前配置的快照（高性能无锁）
func Get() Config {
	val := appConfig.Load()
	if val == nil {
		return Config{}
	}
	c, ok := val.(*Config)
	if !ok {
		return Config{}
	}
	return *c
}

func GetConfigDir() string {
	return configDir
}

// InitConfig 加载 .env、配置文件与环境变量，并原子替换全局配置
func InitConfig(customConfigDir string) {
	loadDotEnv(".env")
	v := initViper(customConfigDir)
	loadAndStore(v)
	log.Println("✅ 配置加载成功")
}

// loadDotEnv 读取 .env（如存在），已存在的环境变量不会被覆盖
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("⚠️  读取 %s 失败: %v", path, err)
	}
}

func initViper(customConfigDir string) *viper.Viper {
	v := viper.New()

	customConfigDir = strings.TrimSpace(customConfigDir)
	if customConfigDir == "" {
		customConfigDir = "config"
	}
	configDir = customConfigDir

	v.AddConfigPath(configDir)
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			log.Println("⚠️  未找到配置文件，将仅使用环境变量或默认值")
		} else {
			log.Fatalf("❌ 读取配置文件失败: %v", err)
		}
	}

	// 规则：所有环境变量必须以 WISH_WALL_ 开头
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// server.port -> SERVER_PORT
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.static_dir", "frontend")
	v.SetDefault("server.trusted_proxies", "")
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.filename", "database/wishes.db")
	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "root")
	v.SetDefault("database.name", "wish_wall")
	v.SetDefault("database.ssl", false)
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("image.width", 300)
	v.SetDefault("image.height", 300)
	v.SetDefault("image.jpeg_quality", 90)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 2)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "wish_wall")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("static.cache_control", "public, max-age=3600")
}

// loadAndStore 解析并原子更新配置
func loadAndStore(v *viper.Viper) {
	configMu.Lock()
	defer configMu.Unlock()

	var tempConfig Config
	if err := v.Unmarshal(&tempConfig); err != nil {
		log.Printf("❌ 配置解析失败: %v", err)
		return
	}

	sanitize(&tempConfig)

	appConfig.Store(&tempConfig)
}

// sanitize 修正明显非法的数值，避免下游出现 0 尺寸缩略图等问题
func sanitize(c *Config) {
	if c.Image.Width <= 0 {
		log.Printf("⚠️  image.width=%d 非法，回退为 300", c.Image.Width)
		c.Image.Width = 300
	}
	if c.Image.Height <= 0 {
		log.Printf("⚠️  image.height=%d 非法，回退为 300", c.Image.Height)
		c.Image.Height = 300
	}
	if c.Image.JPEGQuality < 1 || c.Image.JPEGQuality > 100 {
		c.Image.JPEGQuality = 90
	}
	if c.Upload.MaxSizeMB <= 0 {
		c.Upload.MaxSizeMB = 10
	}
}

// Set 直接替换当前配置，供测试与嵌入场景使用
func Set(c Config) {
	configMu.Lock()
	defer configMu.Unlock()
	sanitize(&c)
	appConfig.Store(&c)
}
