package models

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"notionsync/notion"
)

// Config 对应 config.yaml，环境变量优先
type Config struct {
	Port     string       `yaml:"port" validate:"required,numeric"`
	Notion   NotionConfig `yaml:"notion"`
	MysqlDSN string       `yaml:"mysql_dsn"`
	Redis    RedisConfig  `yaml:"redis"`
	Log      LogConfig    `yaml:"log"`
}

type NotionConfig struct {
	Token      string        `yaml:"token" validate:"required"`
	DatabaseID string        `yaml:"database_id" validate:"required"`
	BaseURL    string        `yaml:"base_url" validate:"omitempty,url"`
	Version    string        `yaml:"version"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	Paginate   bool          `yaml:"paginate"`
	// Debug 打印 Notion 请求和响应（token 会被隐藏）
	Debug bool `yaml:"debug"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	BatchTTL time.Duration `yaml:"batch_ttl" validate:"gte=0"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	JSON  bool   `yaml:"json"`
}

func DefaultConfig() *Config {
	return &Config{
		Port: "3000",
		Notion: NotionConfig{
			BaseURL: notion.DefaultBaseURL,
			Version: notion.DefaultVersion,
			Timeout: 30 * time.Second,
		},
		Redis: RedisConfig{BatchTTL: 24 * time.Hour},
		Log:   LogConfig{Level: "info"},
	}
}

// LoadConfig 读取配置文件（可以不存在），再用环境变量覆盖，最后校验
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}
	cfg.applyEnv()
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"PORT":               &c.Port,
		"NOTION_TOKEN":       &c.Notion.Token,
		"NOTION_DATABASE_ID": &c.Notion.DatabaseID,
		"NOTION_BASE_URL":    &c.Notion.BaseURL,
		"MYSQL_DSN":          &c.MysqlDSN,
		"REDIS_ADDR":         &c.Redis.Addr,
		"REDIS_PASSWORD":     &c.Redis.Password,
		"LOG_LEVEL":          &c.Log.Level,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}
