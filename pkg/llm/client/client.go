package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/core"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/protocol/gemini"
)

const (
	// DefaultBaseURL 代理默认地址
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout 单次请求超时
	DefaultTimeout = 120 * time.Second
)

// Config 客户端配置
type Config struct {
	// BaseURL 代理地址
	BaseURL string `yaml:"base_url"`

	// Path 代理端点路径，默认 llm.DefaultProxyPath
	Path string `yaml:"path"`

	// Timeout 单次请求超时（不含重试等待）
	Timeout time.Duration `yaml:"timeout"`

	// Retry 限流重试策略，零值使用默认策略
	Retry core.RetryPolicy `yaml:"-"`
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Path == "" {
		c.Path = llm.DefaultProxyPath
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Option 选项函数
type Option func(*Client)

// WithSleeper 替换重试等待函数
func WithSleeper(s core.Sleeper) Option {
	return func(c *Client) {
		c.sleep = s
	}
}

// WithLogger 设置日志条目
func WithLogger(entry *log.Entry) Option {
	return func(c *Client) {
		c.logger = entry
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Client
// ═══════════════════════════════════════════════════════════════════════════

// Client 限流重试客户端，实现 llm.Generator
type Client struct {
	config Config
	resty  *resty.Client
	sleep  core.Sleeper
	logger *log.Entry
}

var _ llm.Generator = (*Client)(nil)

// New 创建客户端
func New(cfg Config, opts ...Option) *Client {
	cfg.applyDefaults()

	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetTimeout(cfg.Timeout)
	r.SetHeader("Content-Type", "application/json")

	c := &Client{
		config: cfg,
		resty:  r,
		sleep:  core.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate 发送生成请求
//
// 返回的错误：
//   - *llm.RateLimitError: 连续 429 直到尝试次数耗尽
//   - *llm.APIError: 其他非 2xx，立即返回；RequestID 取自代理回写的 X-Request-ID
//   - *llm.ResponseError: 2xx 但没有正文
//   - *llm.HTTPError: 网络错误
//   - ctx.Err(): 等待重试期间 ctx 被取消
func (c *Client) Generate(ctx context.Context, req llm.GenerationRequest) (*llm.GenerationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, llm.NewRequestError("marshal", err)
	}

	entry := c.logger
	if entry == nil {
		entry = log.WithContext(ctx)
	}

	onRetry := func(attempt int, delay time.Duration, err error) {
		entry.WithFields(log.Fields{
			"attempt": attempt + 1,
			"delay":   delay,
			"status":  llm.GetStatusCode(err),
		}).Warn("rate limited, retrying")
	}

	var result *llm.GenerationResult
	err = c.config.Retry.Do(ctx, c.sleep, onRetry, func(int) error {
		var attemptErr error
		result, attemptErr = c.attempt(ctx, body)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// attempt 发送一次请求
func (c *Client) attempt(ctx context.Context, body []byte) (*llm.GenerationResult, error) {
	resp, err := c.resty.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.config.Path)
	if err != nil {
		return nil, llm.NewHTTPError("proxy request failed", err)
	}

	upstream := core.UpstreamResponse{StatusCode: resp.StatusCode(), Body: resp.Body()}
	if !upstream.OK() {
		return nil, upstream.APIError().WithRequestID(resp.Header().Get(llm.HeaderRequestID))
	}

	return gemini.ExtractResult(upstream.Body)
}
