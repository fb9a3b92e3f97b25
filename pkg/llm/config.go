package llm

import (
	"os"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// 默认值
// ═══════════════════════════════════════════════════════════════════════════

const (
	// DefaultBaseURL Gemini API 默认地址
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel 默认模型
	DefaultModel = "gemini-2.5-flash-preview-09-2025"

	// DefaultTimeout 默认超时时间
	DefaultTimeout = 120 * time.Second
)

// 代理端点
const (
	// DefaultProxyPath 代理端点默认路径，与落地页前端保持一致
	DefaultProxyPath = "/.netlify/functions/generate-content"

	// HeaderRequestID 代理在响应头中回写的请求 ID
	HeaderRequestID = "X-Request-ID"
)

// 环境变量
const (
	EnvAPIKey = "GEMINI_API_KEY"
	EnvModel  = "GEMINI_MODEL"
)

// ═══════════════════════════════════════════════════════════════════════════
// 上游配置
// ═══════════════════════════════════════════════════════════════════════════

// Config 上游生成服务配置
//
// 进程启动时构造一次，以指针传入代理端点，运行期间只读：
//
//	cfg := llm.DefaultConfig()
//	cfg.APIKey = "xxx"
//	h := proxy.NewHandler(&cfg)
type Config struct {
	// APIKey 上游 API 密钥（必需，缺失时代理端点拒绝服务）
	APIKey string `yaml:"api_key"`

	// Model 模型名称，默认 DefaultModel
	Model string `yaml:"model"`

	// BaseURL API 基础地址，默认 DefaultBaseURL
	BaseURL string `yaml:"base_url"`

	// Timeout 单次上游请求超时
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig 返回默认配置，APIKey 与 Model 从环境变量读取
func DefaultConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv(EnvAPIKey),
		Model:   os.Getenv(EnvModel),
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults 为空字段填充默认值
func (c *Config) ApplyDefaults() {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c == nil {
		return NewConfigError("config is required", nil)
	}
	if c.APIKey == "" {
		return NewConfigError("API key is required", nil)
	}
	return nil
}

// GetModel 返回模型名称，未设置时返回默认模型
func (c *Config) GetModel() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}
