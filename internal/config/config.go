package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置结构体（完全匹配config.yaml）
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Postgres PostgresConfig `mapstructure:"postgres"` // PostgreSQL配置
	Backend  BackendConfig  `mapstructure:"backend"`  // 上游商户后端配置
	Checkout CheckoutConfig `mapstructure:"checkout"` // 下单参数配置
	Options  OptionsConfig  `mapstructure:"options"`  // 目录快照缓存配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int    `mapstructure:"port"` // 服务端口
	Mode string `mapstructure:"mode"` // Gin运行模式：debug/release/test
}

// PostgresConfig PostgreSQL数据库配置
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // 连接DSN
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // 最大打开连接数
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // 连接最大存活时间
}

// BackendConfig 上游商户后端配置（目录/促销码/下单统一走这一个后端）
type BackendConfig struct {
	BaseURL    string `mapstructure:"base_url"`    // API基础地址
	APIKey     string `mapstructure:"api_key"`     // X-API-Key 认证
	Timeout    int    `mapstructure:"timeout"`     // 请求超时（秒）
	RetryCount int    `mapstructure:"retry_count"` // 重试次数（预留，当前不自动重试）
	Proxy      string `mapstructure:"proxy"`       // 代理地址
}

// CheckoutConfig 下单参数配置
type CheckoutConfig struct {
	RegionID        string  `mapstructure:"region_id"`        // 上游 regionId，必填
	DefaultCurrency string  `mapstructure:"default_currency"` // 未指定币种时的默认值，如 USD
	DefaultLeverage float64 `mapstructure:"default_leverage"` // 默认杠杆，如 100
	DebugPayments   bool    `mapstructure:"debug_payments"`   // 是否打印上游请求/响应原文
}

// OptionsConfig 目录快照缓存配置
type OptionsConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // 快照缓存时长，0 表示每次请求都拉取
}

// LoadConfig 加载配置文件（config/config.yaml），敏感项从 .env 覆盖（不提交 git）
func LoadConfig() (*Config, error) {
	// 1. 加载 .env（若存在），env 中的值会覆盖 config.yaml 中同名字段
	_ = godotenv.Load() // 忽略错误（.env 可不存在）

	// 2. 读取 config.yaml
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 3. 敏感字段：用 env 覆盖（优先级 env > yaml）
	overrideFromEnv(&cfg)

	if cfg.Checkout.DefaultCurrency == "" {
		cfg.Checkout.DefaultCurrency = "USD"
	}
	if cfg.Checkout.DefaultLeverage <= 0 {
		cfg.Checkout.DefaultLeverage = 100
	}
	return &cfg, nil
}

// overrideFromEnv 用环境变量覆盖敏感配置
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("BACKEND_URL"); v != "" {
		cfg.Backend.BaseURL = v
	}
	if v := os.Getenv("BACKEND_KEY"); v != "" {
		cfg.Backend.APIKey = v
	}
	if v := os.Getenv("BACKEND_PROXY"); v != "" {
		cfg.Backend.Proxy = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("REGION_ID"); v != "" {
		cfg.Checkout.RegionID = v
	}
	if v := os.Getenv("DEBUG_PAYMENTS"); v != "" {
		cfg.Checkout.DebugPayments = v != "0"
	}
}
