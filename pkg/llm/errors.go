package llm

import (
	"errors"
	"fmt"
	"net/http"
)

// ═══════════════════════════════════════════════════════════════════════════
// 错误类型
// ═══════════════════════════════════════════════════════════════════════════

// ErrorType 错误类型
type ErrorType string

const (
	// ErrTypeConfig 配置错误（缺少 API Key 等，不可重试）
	ErrTypeConfig ErrorType = "config_error"

	// ErrTypeRequest 请求错误（序列化、校验等）
	ErrTypeRequest ErrorType = "request_error"

	// ErrTypeHTTP HTTP 层错误（网络、超时等）
	ErrTypeHTTP ErrorType = "http_error"

	// ErrTypeAPI API 业务错误（4xx, 5xx）
	ErrTypeAPI ErrorType = "api_error"

	// ErrTypeRateLimit 限流错误（429，可重试）
	ErrTypeRateLimit ErrorType = "rate_limit_error"

	// ErrTypeResponse 响应解析错误（2xx 但无可用内容）
	ErrTypeResponse ErrorType = "response_error"
)

// ErrNoContent 上游成功返回但没有产出文本
var ErrNoContent = errors.New("no content produced")

// ═══════════════════════════════════════════════════════════════════════════
// 基础错误
// ═══════════════════════════════════════════════════════════════════════════

// BaseError 基础错误实现
type BaseError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *BaseError) Unwrap() error {
	return e.Err
}

// ═══════════════════════════════════════════════════════════════════════════
// 配置错误
// ═══════════════════════════════════════════════════════════════════════════

// ConfigError 配置错误
type ConfigError struct {
	*BaseError
}

// NewConfigError 创建配置错误
func NewConfigError(message string, err error) *ConfigError {
	return &ConfigError{
		BaseError: &BaseError{
			Type:    ErrTypeConfig,
			Message: message,
			Err:     err,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 请求错误
// ═══════════════════════════════════════════════════════════════════════════

// RequestError 请求错误
type RequestError struct {
	*BaseError

	Stage string // "marshal", "decode", "validate"
}

// NewRequestError 创建请求错误
func NewRequestError(stage string, err error) *RequestError {
	return &RequestError{
		BaseError: &BaseError{
			Type:    ErrTypeRequest,
			Message: fmt.Sprintf("failed to %s request", stage),
			Err:     err,
		},
		Stage: stage,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// HTTP 错误
// ═══════════════════════════════════════════════════════════════════════════

// HTTPError HTTP 层错误
type HTTPError struct {
	*BaseError
}

// NewHTTPError 创建 HTTP 错误
func NewHTTPError(message string, err error) *HTTPError {
	return &HTTPError{
		BaseError: &BaseError{
			Type:    ErrTypeHTTP,
			Message: message,
			Err:     err,
		},
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// API 错误
// ═══════════════════════════════════════════════════════════════════════════

// APIError API 业务错误
//
// Message 为对端报告的错误信息；对端未提供时回退为状态码文本。
type APIError struct {
	*BaseError

	StatusCode int
	Response   string
	RequestID  string
}

// NewAPIError 创建 API 错误
func NewAPIError(statusCode int, message, response string) *APIError {
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return &APIError{
		BaseError: &BaseError{
			Type:    ErrTypeAPI,
			Message: message,
		},
		StatusCode: statusCode,
		Response:   response,
	}
}

// WithRequestID 设置请求 ID
func (e *APIError) WithRequestID(requestID string) *APIError {
	e.RequestID = requestID
	return e
}

func (e *APIError) Error() string {
	base := fmt.Sprintf("%s: status %d: %s", e.Type, e.StatusCode, e.Message)
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id: %s)", base, e.RequestID)
	}
	return base
}

// IsRateLimited 是否为限流响应
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ═══════════════════════════════════════════════════════════════════════════
// 限流错误
// ═══════════════════════════════════════════════════════════════════════════

// RateLimitError 限流错误
//
// 包装最后一次 429 响应对应的 APIError，Attempts 为已进行的尝试次数。
type RateLimitError struct {
	*APIError

	Attempts int
}

// NewRateLimitError 创建限流错误
func NewRateLimitError(apiErr *APIError, attempts int) *RateLimitError {
	return &RateLimitError{APIError: apiErr, Attempts: attempts}
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s: rate limit exceeded after %d attempts: %s",
		ErrTypeRateLimit, e.Attempts, e.Message)
}

// Unwrap 返回底层 APIError
func (e *RateLimitError) Unwrap() error {
	return e.APIError
}

// ═══════════════════════════════════════════════════════════════════════════
// 响应解析错误
// ═══════════════════════════════════════════════════════════════════════════

// ResponseError 响应解析错误
type ResponseError struct {
	*BaseError

	Field string // 出错的字段
}

// NewResponseError 创建响应错误
func NewResponseError(field string, err error) *ResponseError {
	return &ResponseError{
		BaseError: &BaseError{
			Type:    ErrTypeResponse,
			Message: fmt.Sprintf("failed to extract response field '%s'", field),
			Err:     err,
		},
		Field: field,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误匹配函数（支持 errors.Is/As）
// ═══════════════════════════════════════════════════════════════════════════

// IsConfigError 检查是否为配置错误
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// IsRequestError 检查是否为请求错误
func IsRequestError(err error) bool {
	var e *RequestError
	return errors.As(err, &e)
}

// IsHTTPError 检查是否为 HTTP 错误
func IsHTTPError(err error) bool {
	var e *HTTPError
	return errors.As(err, &e)
}

// IsAPIError 检查是否为 API 错误（RateLimitError 同样匹配）
func IsAPIError(err error) bool {
	var e *APIError
	return errors.As(err, &e)
}

// IsRateLimitError 检查是否为重试耗尽后的限流错误
func IsRateLimitError(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

// IsResponseError 检查是否为响应解析错误
func IsResponseError(err error) bool {
	var e *ResponseError
	return errors.As(err, &e)
}

// IsRetryableError 检查错误是否可重试
//
// 只有 429 可重试，其余状态一律视为终态。
func IsRetryableError(err error) bool {
	var e *APIError
	if errors.As(err, &e) {
		return e.IsRateLimited()
	}
	return false
}

// GetAPIError 提取 APIError（如果存在）
func GetAPIError(err error) (*APIError, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// GetStatusCode 提取 HTTP 状态码（如果是 API 错误）
func GetStatusCode(err error) int {
	if e, ok := GetAPIError(err); ok {
		return e.StatusCode
	}
	return 0
}
