package llm

import "context"

// ═══════════════════════════════════════════════════════════════════════════
// Generator 接口
// ═══════════════════════════════════════════════════════════════════════════

// Generator 文本生成接口
//
// 由 [client.Client] 实现；上层（如 strategy 包）只依赖该接口。
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

// ═══════════════════════════════════════════════════════════════════════════
// 请求与结果
// ═══════════════════════════════════════════════════════════════════════════

// GenerationRequest 单次生成请求
//
// JSON 字段名与浏览器端保持一致：userQuery / systemPrompt / useGrounding。
type GenerationRequest struct {
	Prompt            string `json:"userQuery"`
	SystemInstruction string `json:"systemPrompt"`
	UseGrounding      bool   `json:"useGrounding,omitempty"`
}

// GenerationResult 生成结果
type GenerationResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Source 引用来源（联网检索时由上游给出）
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}
