package mock

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/protocol/gemini"
)

// DefaultText 未配置回复时返回的正文
const DefaultText = "This is a mock response."

// Option 选项函数
type Option func(*Server)

// Call 一次调用的记录
type Call struct {
	Model   string
	APIKey  string
	Payload gemini.Payload
}

// Prompt 请求提示词
func (c Call) Prompt() string {
	if len(c.Payload.Contents) == 0 || len(c.Payload.Contents[0].Parts) == 0 {
		return ""
	}
	return c.Payload.Contents[0].Parts[0].Text
}

// System 系统指令
func (c Call) System() string {
	if len(c.Payload.SystemInstruction.Parts) == 0 {
		return ""
	}
	return c.Payload.SystemInstruction.Parts[0].Text
}

// ═══════════════════════════════════════════════════════════════════════════
// Server
// ═══════════════════════════════════════════════════════════════════════════

// Server 模拟 Gemini generateContent 的 HTTP 服务
//
// 线程安全；按到达顺序消费回复序列并记录每次调用。
type Server struct {
	router *gin.Engine

	mu      sync.Mutex
	apiKey  string
	replies []Reply
	delay   time.Duration
	err     error
	calls   []Call
}

// New 创建模拟服务
func New(opts ...Option) *Server {
	s := &Server{
		replies: []Reply{{Text: DefaultText}},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = gin.New()
	s.Register(s.router)
	return s
}

// WithReplies 设置回复序列
func WithReplies(replies ...Reply) Option {
	return func(s *Server) {
		if len(replies) > 0 {
			s.replies = replies
		}
	}
}

// WithDelay 设置响应延迟
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		s.delay = d
	}
}

// WithAPIKey 只接受指定的 API Key
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// Register 挂载 /models/{model}:generateContent 路由
func (s *Server) Register(r gin.IRoutes) {
	r.POST("/models/*action", s.handle)
}

// ServeHTTP 实现 http.Handler，便于 httptest 使用
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Calls 返回所有调用记录的副本
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount 返回调用次数
func (s *Server) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// Reset 清空调用记录并从第一条回复重新开始
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 请求处理
// ═══════════════════════════════════════════════════════════════════════════

func (s *Server) handle(c *gin.Context) {
	model, ok := strings.CutSuffix(strings.TrimPrefix(c.Param("action"), "/"), ":generateContent")
	if !ok || model == "" {
		writeError(c, http.StatusNotFound, "method not found")
		return
	}

	var payload gemini.Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid JSON payload received. "+err.Error())
		return
	}

	call := Call{Model: model, APIKey: c.Query("key"), Payload: payload}
	reply, delay, err := s.next(call)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	if s.apiKey != "" && call.APIKey != s.apiKey {
		writeError(c, http.StatusBadRequest, "API key not valid. Please pass a valid API key.")
		return
	}

	if reply.Raw != "" {
		c.Data(reply.status(), "application/json; charset=utf-8", []byte(reply.Raw))
		return
	}

	if status := reply.status(); status < 200 || status >= 300 {
		msg := reply.Error
		if msg == "" {
			msg = http.StatusText(status)
		}
		writeError(c, status, msg)
		return
	}

	c.JSON(reply.status(), buildResponse(reply, call))
}

// next 记录调用并取出本次回复
func (s *Server) next(call Call) (Reply, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return Reply{}, 0, s.err
	}

	idx := len(s.calls)
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	s.calls = append(s.calls, call)
	return s.replies[idx], s.delay, nil
}

// buildResponse 构造 Gemini 响应
func buildResponse(reply Reply, call Call) gemini.Response {
	text := renderTemplate(reply.Text, templateData(call.Prompt(), call.System()))

	candidate := gemini.Candidate{
		Content: &gemini.CandidateContent{
			Role:  "model",
			Parts: []gemini.ResponsePart{{Text: &text}},
		},
		FinishReason: "STOP",
	}

	if len(reply.Sources) > 0 {
		meta := &gemini.GroundingMetadata{}
		for _, src := range reply.Sources {
			meta.GroundingAttributions = append(meta.GroundingAttributions, gemini.Attribution{
				Web: &gemini.WebSource{URI: src.URI, Title: src.Title},
			})
		}
		candidate.GroundingMetadata = meta
	}

	return gemini.Response{Candidates: []gemini.Candidate{candidate}}
}

// writeError 按 Gemini 错误格式返回
func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    status,
			"message": message,
		},
	})
}
