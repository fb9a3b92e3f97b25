package proxy

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lwmacct/251016-go-pkg-landing/internal/logging"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
)

// NewRouter 创建挂载了代理端点的 Gin 引擎
//
// 路由：
//   - <path>（任意方法，非 POST 返回 405，包括非标准方法）
//   - GET /healthz
func NewRouter(config *llm.Config, path string) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinLogger(), logging.GinRecovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"model":      config.GetModel(),
			"configured": config.APIKey != "",
		})
	})

	if path == "" {
		path = DefaultPath
	}
	NewHandler(config).Register(r, path)

	// r.Any 只覆盖标准方法，其余方法在此返回 405
	r.NoRoute(func(c *gin.Context) {
		if c.Request.URL.Path == path {
			c.String(http.StatusMethodNotAllowed, MsgMethodNotAllowed)
		}
	})
	return r
}
