package gemini

import (
	"fmt"
	"net/url"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 请求体结构
// ═══════════════════════════════════════════════════════════════════════════

// Payload generateContent 请求体
//
//	{
//	  "contents": [{"parts": [{"text": "<userQuery>"}]}],
//	  "systemInstruction": {"parts": [{"text": "<systemPrompt>"}]},
//	  "tools": [{"google_search": {}}]
//	}
//
// tools 仅在启用联网检索时出现。
type Payload struct {
	Contents          []Content `json:"contents"`
	SystemInstruction Content   `json:"systemInstruction"`
	Tools             []Tool    `json:"tools,omitempty"`
}

// Content 内容块
type Content struct {
	Parts []Part `json:"parts"`
}

// Part 文本片段
type Part struct {
	Text string `json:"text"`
}

// Tool 工具声明
type Tool struct {
	GoogleSearch *GoogleSearch `json:"google_search,omitempty"`
}

// GoogleSearch 联网检索标记（空对象）
type GoogleSearch struct{}

// ═══════════════════════════════════════════════════════════════════════════
// 构造
// ═══════════════════════════════════════════════════════════════════════════

// BuildPayload 由 GenerationRequest 构造上游请求体
//
// 结果只取决于输入：同一请求总是得到同一请求体。
func BuildPayload(req llm.GenerationRequest) *Payload {
	p := &Payload{
		Contents: []Content{
			{Parts: []Part{{Text: req.Prompt}}},
		},
		SystemInstruction: Content{
			Parts: []Part{{Text: req.SystemInstruction}},
		},
	}

	if req.UseGrounding {
		p.Tools = []Tool{{GoogleSearch: &GoogleSearch{}}}
	}

	return p
}

// HasGroundingTool 请求体是否携带联网检索工具
func (p *Payload) HasGroundingTool() bool {
	for _, t := range p.Tools {
		if t.GoogleSearch != nil {
			return true
		}
	}
	return false
}

// ═══════════════════════════════════════════════════════════════════════════
// 端点
// ═══════════════════════════════════════════════════════════════════════════

// GenerateEndpoint 构建 generateContent 端点（相对 BaseURL）
//
// API Key 作为查询参数 ?key=XXX 传递。
func GenerateEndpoint(model, apiKey string) string {
	return fmt.Sprintf("/models/%s:generateContent?key=%s",
		url.PathEscape(model), url.QueryEscape(apiKey))
}
