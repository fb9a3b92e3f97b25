package core

import (
	"context"
	"encoding/json"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/protocol/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// 上游响应
// ═══════════════════════════════════════════════════════════════════════════

// UpstreamResponse 上游原始响应
//
// Body 原样保留，由调用方决定透传或解析。
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// OK 是否为 2xx
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ErrorMessage 提取错误信息
//
// 依次尝试 error.message 与 error（字符串），都不存在时回退为状态码文本。
func (r *UpstreamResponse) ErrorMessage() string {
	return ExtractErrorMessage(r.StatusCode, r.Body)
}

// APIError 转换为 llm.APIError
func (r *UpstreamResponse) APIError() *llm.APIError {
	return llm.NewAPIError(r.StatusCode, r.ErrorMessage(), string(r.Body))
}

// ExtractErrorMessage 从错误响应体中提取错误信息
func ExtractErrorMessage(statusCode int, body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error.message"); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
		if msg := gjson.GetBytes(body, "error"); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
	}
	return llm.NewAPIError(statusCode, "", "").Message
}

// ═══════════════════════════════════════════════════════════════════════════
// Upstream 上游客户端
// ═══════════════════════════════════════════════════════════════════════════

// Upstream Gemini generateContent 调用方
//
// 每次 Generate 只发出一个请求：不重试、不缓存。
// 配置只读，可被多个 goroutine 并发使用。
type Upstream struct {
	config *llm.Config
	resty  *resty.Client
}

// NewUpstream 创建上游客户端
//
// 不校验 APIKey：缺失时由 Generate 返回 ConfigError，
// 以便代理端点按请求返回配置错误。
func NewUpstream(config *llm.Config) *Upstream {
	cfg := *config
	cfg.ApplyDefaults()

	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)
	r.SetTimeout(cfg.Timeout)
	r.SetHeader("Content-Type", "application/json")

	return &Upstream{
		config: config,
		resty:  r,
	}
}

// Model 返回实际使用的模型
func (u *Upstream) Model() string {
	return u.config.GetModel()
}

// Generate 发送一次 generateContent 请求
//
// 非 2xx 不视为错误，由调用方根据 StatusCode 处理；
// 返回的错误只有配置错误、序列化错误与网络错误。
func (u *Upstream) Generate(ctx context.Context, payload *gemini.Payload) (*UpstreamResponse, error) {
	if err := u.config.Validate(); err != nil {
		return nil, err
	}

	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, llm.NewRequestError("marshal", err)
	}

	resp, err := u.resty.R().
		SetContext(ctx).
		SetBody(bodyBytes).
		Post(gemini.GenerateEndpoint(u.Model(), u.config.APIKey))
	if err != nil {
		return nil, llm.NewHTTPError("upstream request failed", err)
	}

	return &UpstreamResponse{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
