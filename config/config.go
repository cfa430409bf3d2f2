package config

import (
    "errors"
    "fmt"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
    Server   ServerConfig   `mapstructure:"server"`
    Database DatabaseConfig `mapstructure:"database" validate:"required"`
    Redis    RedisConfig    `mapstructure:"redis"`
    Queue    QueueConfig    `mapstructure:"queue"`
    Object   ObjectConfig   `mapstructure:"object"`
    Auth     AuthConfig     `mapstructure:"auth"`
    Log      LogConfig      `mapstructure:"log"`
    Trace    TraceConfig    `mapstructure:"trace"`
    Sentry   SentryConfig   `mapstructure:"sentry"`
}

type ServerConfig struct {
    Addr string `mapstructure:"addr"`
    Mode string `mapstructure:"mode"` // debug, release
    // RateLimit 每秒请求数上限（令牌桶），Burst 为突发容量
    RateLimit float64 `mapstructure:"rate_limit"`
    Burst     int     `mapstructure:"burst"`
}

type DatabaseConfig struct {
    Driver string `mapstructure:"driver" validate:"oneof=sqlite postgres"`
    DSN    string `mapstructure:"dsn" validate:"required"`
}

type RedisConfig struct {
    Addr     string `mapstructure:"addr"`
    Password string `mapstructure:"password"`
    DB       int    `mapstructure:"db"`
}

// QueueConfig 本地待发布队列（独立 sqlite 文件，单实例单写者）
type QueueConfig struct {
    Path string `mapstructure:"path"`
}

type ObjectConfig struct {
    // BaseURL 对象公开访问前缀
    BaseURL string `mapstructure:"base_url"`
}

type AuthConfig struct {
    JWTSecret string `mapstructure:"jwt_secret"`
}

type LogConfig struct {
    Level string `mapstructure:"level"`
}

type TraceConfig struct {
    Enabled  bool   `mapstructure:"enabled"`
    Endpoint string `mapstructure:"endpoint"`
}

type SentryConfig struct {
    DSN string `mapstructure:"dsn"`
}

// Load 读取 config.yaml 并叠加 CM_ 前缀环境变量
func Load() (*Config, error) {
    v := viper.New()
    v.SetConfigName("config")
    v.SetConfigType("yaml")
    v.AddConfigPath(".")
    v.AddConfigPath("./config")
    v.SetEnvPrefix("CM")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
    v.AutomaticEnv()

    v.SetDefault("server.addr", ":8080")
    v.SetDefault("server.mode", "debug")
    v.SetDefault("server.rate_limit", 100)
    v.SetDefault("server.burst", 200)
    v.SetDefault("database.driver", "sqlite")
    v.SetDefault("database.dsn", "campus.db")
    v.SetDefault("redis.addr", "localhost:6379")
    v.SetDefault("queue.path", "capture_queue.db")
    v.SetDefault("object.base_url", "http://localhost:8080/objects")
    v.SetDefault("log.level", "info")

    if err := v.ReadInConfig(); err != nil {
        var notFound viper.ConfigFileNotFoundError
        if !errors.As(err, &notFound) {
            return nil, fmt.Errorf("read config: %w", err)
        }
        // 没有配置文件时用默认值 + 环境变量
    }

    var cfg Config
    if err := v.Unmarshal(&cfg); err != nil {
        return nil, fmt.Errorf("unmarshal config: %w", err)
    }
    if err := validator.New().Struct(&cfg); err != nil {
        return nil, fmt.Errorf("validate config: %w", err)
    }
    return &cfg, nil
}
