package proxy

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/lwmacct/251016-go-pkg-landing/internal/logging"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/core"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/protocol/gemini"
)

const (
	// DefaultPath 代理端点默认路径
	DefaultPath = llm.DefaultProxyPath

	// MsgServerConfig 缺少 API Key 时返回给调用方的信息
	MsgServerConfig = "Server configuration error"

	// MsgMethodNotAllowed 非 POST 请求的响应体
	MsgMethodNotAllowed = "Method Not Allowed"
)

// ErrorResponse 错误响应体
type ErrorResponse struct {
	Error string `json:"error"`
}

// ═══════════════════════════════════════════════════════════════════════════
// Handler
// ═══════════════════════════════════════════════════════════════════════════

// Handler 生成代理端点
//
// 对浏览器隐藏上游 API Key，每个请求只向上游转发一次：
//   - 非 POST → 405，不读取请求体
//   - 缺少 API Key → 500，不调用上游
//   - 上游非 2xx → 透传状态码，返回 {"error": "..."}
//   - 请求体/网络/上游响应体异常 → 500，返回 {"error": "..."}
//   - 成功 → 200，原样返回上游 JSON
//
// Handler 无可变状态，可并发处理请求。
type Handler struct {
	config   *llm.Config
	upstream *core.Upstream
}

// NewHandler 创建代理端点
//
// config 在进程启动时构造，运行期间只读。
func NewHandler(config *llm.Config) *Handler {
	return &Handler{
		config:   config,
		upstream: core.NewUpstream(config),
	}
}

// Register 在 path 上挂载端点
//
// 所有方法都路由到 Generate，由 Generate 自行返回 405。
func (h *Handler) Register(r gin.IRoutes, path string) {
	if path == "" {
		path = DefaultPath
	}
	r.Any(path, h.Generate)
}

// Generate 处理一次生成请求
func (h *Handler) Generate(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.String(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		return
	}

	ctx := c.Request.Context()
	entry := logging.Entry(ctx)

	if err := h.config.Validate(); err != nil {
		entry.WithField("error", err).Errorf("Missing %s environment variable", llm.EnvAPIKey)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgServerConfig})
		return
	}

	var req llm.GenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reqErr := llm.NewRequestError("decode", err)
		entry.WithField("error", reqErr).Error("invalid request body")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	entry = entry.WithFields(log.Fields{
		"model":     h.upstream.Model(),
		"grounding": req.UseGrounding,
	})

	resp, err := h.upstream.Generate(ctx, gemini.BuildPayload(req))
	if err != nil {
		entry.WithField("error", err).Error("upstream call failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if !resp.OK() {
		msg := resp.ErrorMessage()
		entry.WithFields(log.Fields{"status": resp.StatusCode, "error": msg}).Warn("upstream returned error")
		c.JSON(resp.StatusCode, ErrorResponse{Error: msg})
		return
	}

	if !gjson.ValidBytes(resp.Body) {
		entry.WithField("status", resp.StatusCode).Error("upstream returned invalid JSON")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "invalid upstream response"})
		return
	}

	entry.WithField("status", resp.StatusCode).Debug("upstream call succeeded")
	c.Data(http.StatusOK, "application/json; charset=utf-8", resp.Body)
}
