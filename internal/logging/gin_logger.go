package logging

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
)

// requestIDKey context 中的请求 ID 键
type requestIDKey struct{}

// ginRequestIDKey Gin context 中的请求 ID 键
const ginRequestIDKey = "__request_id__"

// HeaderRequestID 响应头中的请求 ID
const HeaderRequestID = llm.HeaderRequestID

// sensitiveQueryParams 日志中需要脱敏的查询参数
var sensitiveQueryParams = []string{"key", "api_key", "token"}

// ═══════════════════════════════════════════════════════════════════════════
// 请求 ID
// ═══════════════════════════════════════════════════════════════════════════

// GenerateRequestID 生成 8 位请求 ID
func GenerateRequestID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// WithRequestID 在 context 中附加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// GetRequestID 从 context 读取请求 ID，不存在时返回空串
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetGinRequestID 从 Gin context 读取请求 ID
func GetGinRequestID(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if id, exists := c.Get(ginRequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}

// Entry 返回带请求 ID 的日志条目
func Entry(ctx context.Context) *log.Entry {
	return log.WithField("request_id", GetRequestID(ctx))
}

// ═══════════════════════════════════════════════════════════════════════════
// 中间件
// ═══════════════════════════════════════════════════════════════════════════

// GinLogger 请求日志中间件
//
// 为每个请求分配请求 ID（写入 context 与 X-Request-ID 响应头），
// 结束后记录状态码、耗时、客户端 IP、方法与路径；查询参数中的密钥会被脱敏。
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := MaskSensitiveQuery(c.Request.URL.RawQuery)

		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = GenerateRequestID()
		}
		c.Set(ginRequestIDKey, requestID)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))
		c.Header(HeaderRequestID, requestID)

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		latency := time.Since(start).Truncate(time.Millisecond)
		statusCode := c.Writer.Status()
		logLine := fmt.Sprintf("%3d | %13v | %15s | %-7s \"%s\"",
			statusCode, latency, c.ClientIP(), c.Request.Method, path)
		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			logLine = logLine + " | " + errorMessage
		}

		entry := log.WithField("request_id", requestID)
		switch {
		case statusCode >= http.StatusInternalServerError:
			entry.Error(logLine)
		case statusCode >= http.StatusBadRequest:
			entry.Warn(logLine)
		default:
			entry.Info(logLine)
		}
	}
}

// GinRecovery panic 恢复中间件，返回 500 并记录堆栈
func GinRecovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
			panic(http.ErrAbortHandler)
		}

		log.WithFields(log.Fields{
			"request_id": GetGinRequestID(c),
			"panic":      recovered,
			"stack":      string(debug.Stack()),
		}).Errorf("recovered from panic on %s", c.Request.URL.Path)

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprint(recovered)})
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 脱敏
// ═══════════════════════════════════════════════════════════════════════════

// MaskSensitiveQuery 脱敏查询串中的密钥参数
func MaskSensitiveQuery(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, "&")
	for i, part := range parts {
		keyPart, valuePart, found := strings.Cut(part, "=")
		if !found {
			continue
		}
		decodedKey, err := url.QueryUnescape(keyPart)
		if err != nil {
			decodedKey = keyPart
		}
		if !isSensitiveParam(decodedKey) {
			continue
		}
		decodedValue, err := url.QueryUnescape(valuePart)
		if err != nil {
			decodedValue = valuePart
		}
		parts[i] = keyPart + "=" + url.QueryEscape(HideAPIKey(decodedValue))
	}
	return strings.Join(parts, "&")
}

// HideAPIKey 保留首尾少量字符，其余以 ... 代替
func HideAPIKey(apiKey string) string {
	switch {
	case apiKey == "":
		return ""
	case len(apiKey) > 8:
		return apiKey[:4] + "..." + apiKey[len(apiKey)-4:]
	case len(apiKey) > 4:
		return apiKey[:2] + "..." + apiKey[len(apiKey)-2:]
	default:
		return "..."
	}
}

func isSensitiveParam(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range sensitiveQueryParams {
		if name == p {
			return true
		}
	}
	return false
}
