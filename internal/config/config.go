// Package config 加载落地页服务的应用配置
//
// 优先级（从低到高）：默认值 → YAML 文件 → .env → 环境变量。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/lwmacct/251016-go-pkg-landing/internal/logging"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/client"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/core"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/proxy"
)

// 环境变量
const (
	EnvAddr     = "LANDING_ADDR"
	EnvProxyURL = "LANDING_PROXY_URL"
)

// DefaultAddr 代理默认监听地址
const DefaultAddr = ":8080"

// Config 应用配置
type Config struct {
	Upstream llm.Config     `yaml:"upstream"`
	Server   ServerConfig   `yaml:"server"`
	Client   ClientConfig   `yaml:"client"`
	Log      logging.Config `yaml:"log"`
}

// ServerConfig 代理服务配置
type ServerConfig struct {
	// Addr 监听地址
	Addr string `yaml:"addr"`

	// Path 代理端点路径
	Path string `yaml:"path"`
}

// ClientConfig 客户端配置（generate / brief 命令使用）
type ClientConfig struct {
	// ProxyURL 代理地址
	ProxyURL string `yaml:"proxy_url"`

	// MaxAttempts 最大尝试次数（含首次）
	MaxAttempts int `yaml:"max_attempts"`

	// Timeout 单次请求超时
	Timeout time.Duration `yaml:"timeout"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Upstream: llm.Config{
			Model:   llm.DefaultModel,
			BaseURL: llm.DefaultBaseURL,
			Timeout: llm.DefaultTimeout,
		},
		Server: ServerConfig{
			Addr: DefaultAddr,
			Path: proxy.DefaultPath,
		},
		Client: ClientConfig{
			ProxyURL:    client.DefaultBaseURL,
			MaxAttempts: core.DefaultMaxAttempts,
			Timeout:     client.DefaultTimeout,
		},
		Log: logging.Config{Level: "info"},
	}
}

// Load 加载配置
//
// path 为空时跳过配置文件；envFile 为空时尝试当前目录的 .env，
// 文件不存在不视为错误。
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

// loadDotEnv 加载 .env，不覆盖已存在的环境变量
func loadDotEnv(envFile string) error {
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	log.WithField("file", envFile).Debug("loaded env file")
	return nil
}

// applyEnv 环境变量覆盖
func (c *Config) applyEnv() {
	if v, ok := lookupEnv(llm.EnvAPIKey); ok {
		c.Upstream.APIKey = v
	}
	if v, ok := lookupEnv(llm.EnvModel); ok {
		c.Upstream.Model = v
	}
	if v, ok := lookupEnv(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := lookupEnv(EnvProxyURL); ok {
		c.Client.ProxyURL = v
	}
}

// applyDefaults 为文件中置空的字段补默认值
func (c *Config) applyDefaults() {
	c.Upstream.ApplyDefaults()
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Path == "" {
		c.Server.Path = proxy.DefaultPath
	}
	if c.Client.MaxAttempts <= 0 {
		c.Client.MaxAttempts = core.DefaultMaxAttempts
	}
	if c.Client.MaxAttempts > core.MaxAttemptsLimit {
		log.WithField("max_attempts", c.Client.MaxAttempts).
			Warnf("client.max_attempts capped at %d", core.MaxAttemptsLimit)
		c.Client.MaxAttempts = core.MaxAttemptsLimit
	}
}

// ClientOptions 转换为 client.Config
//
// 客户端与代理共用 Server.Path。
func (c *Config) ClientOptions() client.Config {
	retry := core.DefaultRetryPolicy()
	retry.MaxAttempts = c.Client.MaxAttempts

	return client.Config{
		BaseURL: c.Client.ProxyURL,
		Path:    c.Server.Path,
		Timeout: c.Client.Timeout,
		Retry:   retry,
	}
}

func lookupEnv(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed, true
		}
	}
	return "", false
}
