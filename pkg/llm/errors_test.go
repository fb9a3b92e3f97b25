package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ═══════════════════════════════════════════════════════════════════════════
// ConfigError 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestConfigError(t *testing.T) {
	t.Run("创建配置错误（无底层错误）", func(t *testing.T) {
		err := NewConfigError("API key is required", nil)

		require.NotNil(t, err)
		assert.True(t, IsConfigError(err))
		assert.False(t, IsRequestError(err))
		assert.Contains(t, err.Error(), "config_error")
		assert.Contains(t, err.Error(), "API key is required")
	})

	t.Run("错误链支持", func(t *testing.T) {
		underlying := errors.New("underlying error")
		err := NewConfigError("config failed", underlying)

		require.ErrorIs(t, err, underlying)
		assert.Equal(t, underlying, errors.Unwrap(err))
		assert.Contains(t, err.Error(), "underlying error")
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// RequestError / HTTPError 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestRequestError(t *testing.T) {
	stages := []string{"marshal", "decode", "validate"}
	for _, stage := range stages {
		t.Run(stage, func(t *testing.T) {
			err := NewRequestError(stage, errors.New(stage+" error"))

			assert.True(t, IsRequestError(err))
			assert.Equal(t, stage, err.Stage)
			assert.Contains(t, err.Error(), "failed to "+stage)
		})
	}
}

func TestHTTPError(t *testing.T) {
	err := NewHTTPError("connection failed", errors.New("timeout"))

	require.NotNil(t, err)
	assert.True(t, IsHTTPError(err))
	assert.False(t, IsAPIError(err))
	assert.Contains(t, err.Error(), "http_error")
	assert.Contains(t, err.Error(), "connection failed")
	assert.Contains(t, err.Error(), "timeout")
}

// ═══════════════════════════════════════════════════════════════════════════
// APIError 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestAPIError(t *testing.T) {
	t.Run("携带对端错误信息", func(t *testing.T) {
		err := NewAPIError(403, "API key not valid", `{"error":"API key not valid"}`)

		assert.True(t, IsAPIError(err))
		assert.False(t, IsConfigError(err))
		assert.Equal(t, 403, err.StatusCode)
		assert.Equal(t, "API key not valid", err.Message)
		assert.Contains(t, err.Error(), "api_error")
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "API key not valid")
	})

	t.Run("无错误信息时回退为状态文本", func(t *testing.T) {
		err := NewAPIError(http.StatusBadGateway, "", "")
		assert.Equal(t, "Bad Gateway", err.Message)
	})

	t.Run("请求 ID", func(t *testing.T) {
		err := NewAPIError(500, "boom", "").WithRequestID("req-123")
		assert.Equal(t, "req-123", err.RequestID)
		assert.Contains(t, err.Error(), "req-123")
	})

	t.Run("只有 429 可重试", func(t *testing.T) {
		tests := []struct {
			name       string
			statusCode int
			retryable  bool
		}{
			{"400 Bad Request", 400, false},
			{"403 Forbidden", 403, false},
			{"404 Not Found", 404, false},
			{"429 Rate Limit", 429, true},
			{"500 Internal Server Error", 500, false},
			{"503 Service Unavailable", 503, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := NewAPIError(tt.statusCode, "error", "")
				assert.Equal(t, tt.retryable, err.IsRateLimited())
				assert.Equal(t, tt.retryable, IsRetryableError(err))
			})
		}
	})

	t.Run("GetStatusCode 提取", func(t *testing.T) {
		assert.Equal(t, 403, GetStatusCode(NewAPIError(403, "Forbidden", "")))
		assert.Equal(t, 0, GetStatusCode(errors.New("other error")))

		wrapped := fmt.Errorf("call proxy: %w", NewAPIError(404, "", ""))
		assert.Equal(t, 404, GetStatusCode(wrapped))
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// RateLimitError 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestRateLimitError(t *testing.T) {
	apiErr := NewAPIError(http.StatusTooManyRequests, "Resource exhausted", "")
	err := NewRateLimitError(apiErr, 5)

	assert.True(t, IsRateLimitError(err))
	assert.True(t, IsAPIError(err), "RateLimitError 应能作为 APIError 匹配")
	assert.Equal(t, 429, GetStatusCode(err))
	assert.Equal(t, 5, err.Attempts)
	assert.Contains(t, err.Error(), "rate_limit_error")
	assert.Contains(t, err.Error(), "5 attempts")
	assert.Contains(t, err.Error(), "Resource exhausted")
	require.ErrorIs(t, err, apiErr)

	// 普通 429 APIError 不是 RateLimitError
	assert.False(t, IsRateLimitError(apiErr))
}

// ═══════════════════════════════════════════════════════════════════════════
// ResponseError 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestResponseError(t *testing.T) {
	err := NewResponseError("candidates[0].content.parts[0].text", ErrNoContent)

	require.NotNil(t, err)
	assert.True(t, IsResponseError(err))
	assert.False(t, IsAPIError(err))
	assert.False(t, IsRateLimitError(err))
	assert.Equal(t, "candidates[0].content.parts[0].text", err.Field)
	assert.Contains(t, err.Error(), "response_error")
	assert.Contains(t, err.Error(), "no content produced")
	require.ErrorIs(t, err, ErrNoContent)
}

// ═══════════════════════════════════════════════════════════════════════════
// 错误匹配函数测试
// ═══════════════════════════════════════════════════════════════════════════

func TestErrorMatching(t *testing.T) {
	cases := []struct {
		err error
		fn  func(error) bool
	}{
		{NewConfigError("", nil), IsConfigError},
		{NewRequestError("", nil), IsRequestError},
		{NewHTTPError("", nil), IsHTTPError},
		{NewAPIError(500, "", ""), IsAPIError},
		{NewRateLimitError(NewAPIError(429, "", ""), 1), IsRateLimitError},
		{NewResponseError("", nil), IsResponseError},
	}

	for _, tt := range cases {
		assert.True(t, tt.fn(tt.err), "Error type check failed: %v", tt.err)
	}

	assert.False(t, IsRetryableError(NewConfigError("", nil)))
}
