package config

import (
	"strings"

	"github.com/blues/launchpad/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Platform     PlatformConfig     `mapstructure:"platform"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Task         TaskConfig         `mapstructure:"task"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// StorageConfig 账本存储后端
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // memory, postgres, redis
	Prefix string `mapstructure:"prefix"` // redis 键前缀
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Enabled  bool   `mapstructure:"enabled"` // 事件日志是否写入数据库
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	PoolSize int    `mapstructure:"pool_size"`
}

// PlatformConfig 平台身份配置
type PlatformConfig struct {
	AdminPrivateKey string `mapstructure:"admin_private_key"` // 管理员私钥（十六进制）
	AuthDomain      string `mapstructure:"auth_domain"`       // 授权意图的域
	AuthMaxAge      uint64 `mapstructure:"auth_max_age"`      // 授权证明有效期（秒），0 不限制
}

// OrchestratorConfig 编排器开关与投资人等级阈值
type OrchestratorConfig struct {
	RelayFunding    bool   `mapstructure:"relay_funding"`    // 把投资额同步到项目注册表
	AwardBadges     bool   `mapstructure:"award_badges"`     // 自动发放成就徽章
	SilverThreshold string `mapstructure:"silver_threshold"` // 达到该金额为 Silver
	GoldThreshold   string `mapstructure:"gold_threshold"`   // 超过该金额为 Gold
}

type TaskConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Interval int  `mapstructure:"interval"` // 秒
	Workers  int  `mapstructure:"workers"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, stderr, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// SetDefaults 设置默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", "memory")
	v.SetDefault("storage.prefix", "launchpad:")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "launchpad")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("platform.admin_private_key", "")
	v.SetDefault("platform.auth_domain", "launchpad")
	v.SetDefault("platform.auth_max_age", 300)
	v.SetDefault("orchestrator.relay_funding", true)
	v.SetDefault("orchestrator.award_badges", true)
	v.SetDefault("orchestrator.silver_threshold", "1000")
	v.SetDefault("orchestrator.gold_threshold", "10000")
	v.SetDefault("task.enabled", true)
	v.SetDefault("task.interval", 60)
	v.SetDefault("task.workers", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}

// LoadFrom 从 viper 实例读取配置
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	// 自动读取环境变量，LAUNCHPAD_STORAGE_DRIVER -> storage.driver
	v.SetEnvPrefix("launchpad")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/launchpad")

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	config, err := LoadFrom(v)
	if err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}
	return config
}
