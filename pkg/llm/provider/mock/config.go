package mock

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed examples/default.yaml
var exampleConfigYAML []byte

// Config 配置文件结构
type Config struct {
	// APIKey 期望的 API Key（为空时接受任意 Key）
	APIKey string `yaml:"api_key" json:"api_key"`

	// Replies 回复序列：每次调用依次取一条，用完后重复最后一条
	Replies []Reply `yaml:"replies" json:"replies"`

	// Delay 响应延迟（如 "100ms", "1s"）
	Delay string `yaml:"delay" json:"delay"`
}

// Reply 单次回复
type Reply struct {
	// Status HTTP 状态码，默认 200
	Status int `yaml:"status,omitempty" json:"status,omitempty"`

	// Text 回复正文（支持模板语法）
	Text string `yaml:"text,omitempty" json:"text,omitempty"`

	// Error 错误信息（Status 非 2xx 时使用）
	Error string `yaml:"error,omitempty" json:"error,omitempty"`

	// Sources 引用来源，写入 groundingMetadata
	Sources []Source `yaml:"sources,omitempty" json:"sources,omitempty"`

	// Raw 原样返回的响应体，设置后忽略 Text/Error/Sources
	Raw string `yaml:"raw,omitempty" json:"raw,omitempty"`
}

// Source 引用来源
type Source struct {
	URI   string `yaml:"uri" json:"uri"`
	Title string `yaml:"title" json:"title"`
}

// status 返回实际状态码
func (r Reply) status() int {
	if r.Status == 0 {
		return 200
	}
	return r.Status
}

// LoadConfigFile 从文件加载配置
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return LoadConfigFromBytes(data, ext)
}

// LoadConfigFromBytes 从字节数据加载配置
func LoadConfigFromBytes(data []byte, format string) (*Config, error) {
	cfg := &Config{}

	// 规范化格式字符串（支持 ".yaml" 或 "yaml"）
	format = strings.TrimPrefix(strings.ToLower(format), ".")

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s (expected yaml, yml, or json)", format)
	}

	return cfg, nil
}

// LoadExampleConfig 加载内嵌的示例配置
func LoadExampleConfig() (*Config, error) {
	return LoadConfigFromBytes(exampleConfigYAML, "yaml")
}

// WithConfigFile 从配置文件加载设置
func WithConfigFile(path string) Option {
	return func(s *Server) {
		cfg, err := LoadConfigFile(path)
		if err != nil {
			// 将错误存储到服务，在首次调用时返回
			s.err = fmt.Errorf("load config file: %w", err)
			return
		}
		applyConfig(s, cfg)
	}
}

// WithConfig 从配置对象加载设置
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg == nil {
			return
		}
		applyConfig(s, cfg)
	}
}

// applyConfig 应用配置到服务
func applyConfig(s *Server, cfg *Config) {
	s.apiKey = cfg.APIKey

	if len(cfg.Replies) > 0 {
		s.replies = append([]Reply(nil), cfg.Replies...)
	}

	if cfg.Delay != "" {
		if d, err := time.ParseDuration(cfg.Delay); err == nil {
			WithDelay(d)(s)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 模板渲染
// ═══════════════════════════════════════════════════════════════════════════

// templateFuncs 模板函数映射
var templateFuncs = template.FuncMap{
	"env":     envFunc,
	"default": defaultFunc,
}

// envFunc 获取环境变量
func envFunc(key string, defaultVal ...string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return ""
}

// defaultFunc 提供默认值
func defaultFunc(defaultVal, value any) any {
	if value == nil {
		return defaultVal
	}
	if str, ok := value.(string); ok && str == "" {
		return defaultVal
	}
	return value
}

// renderTemplate 渲染回复正文，失败时返回原文
func renderTemplate(text string, data map[string]string) string {
	tmpl, err := template.New("reply").Funcs(templateFuncs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return text
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return text
	}
	return buf.String()
}

// templateData 环境变量 + 请求字段
func templateData(prompt, system string) map[string]string {
	vars := make(map[string]string)
	for _, env := range os.Environ() {
		if k, v, ok := strings.Cut(env, "="); ok {
			vars[k] = v
		}
	}
	vars["PROMPT"] = prompt
	vars["SYSTEM"] = system
	return vars
}
