package gemini

import (
	"encoding/json"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
)

// FieldText 正文所在字段路径，用于 ResponseError
const FieldText = "candidates[0].content.parts[0].text"

// ═══════════════════════════════════════════════════════════════════════════
// 响应结构
// ═══════════════════════════════════════════════════════════════════════════

// Response generateContent 响应
//
//	{
//	  "candidates": [{
//	    "content": {"role": "model", "parts": [{"text": "..."}]},
//	    "groundingMetadata": {
//	      "groundingAttributions": [{"web": {"uri": "...", "title": "..."}}]
//	    },
//	    "finishReason": "STOP"
//	  }]
//	}
//
// 每一层都可能缺失，指针字段为 nil 表示缺失。
type Response struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate 候选回答
type Candidate struct {
	Content           *CandidateContent  `json:"content,omitempty"`
	GroundingMetadata *GroundingMetadata `json:"groundingMetadata,omitempty"`
	FinishReason      string             `json:"finishReason,omitempty"`
}

// CandidateContent 候选内容
type CandidateContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []ResponsePart `json:"parts,omitempty"`
}

// ResponsePart 响应片段
type ResponsePart struct {
	Text *string `json:"text,omitempty"`
}

// GroundingMetadata 联网检索元数据
type GroundingMetadata struct {
	GroundingAttributions []Attribution `json:"groundingAttributions,omitempty"`
}

// Attribution 引用条目
type Attribution struct {
	Web *WebSource `json:"web,omitempty"`
}

// WebSource 网页来源
type WebSource struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// ═══════════════════════════════════════════════════════════════════════════
// 字段访问
// ═══════════════════════════════════════════════════════════════════════════

// FirstCandidate 返回第一个候选
func (r *Response) FirstCandidate() (*Candidate, bool) {
	if r == nil || len(r.Candidates) == 0 {
		return nil, false
	}
	return &r.Candidates[0], true
}

// FirstText 返回候选第一个片段的文本，空串视为缺失
func (c *Candidate) FirstText() (string, bool) {
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 {
		return "", false
	}
	text := c.Content.Parts[0].Text
	if text == nil || *text == "" {
		return "", false
	}
	return *text, true
}

// Sources 提取引用来源
//
// 只保留 uri 与 title 都非空的条目，顺序与上游一致；
// 无检索元数据时返回空切片。
func (c *Candidate) Sources() []llm.Source {
	sources := []llm.Source{}
	if c == nil || c.GroundingMetadata == nil {
		return sources
	}
	for _, a := range c.GroundingMetadata.GroundingAttributions {
		if a.Web == nil || a.Web.URI == "" || a.Web.Title == "" {
			continue
		}
		sources = append(sources, llm.Source{URI: a.Web.URI, Title: a.Web.Title})
	}
	return sources
}

// ═══════════════════════════════════════════════════════════════════════════
// 解析
// ═══════════════════════════════════════════════════════════════════════════

// ParseResponse 解析响应体
func ParseResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, llm.NewResponseError("body", err)
	}
	return &resp, nil
}

// ExtractResult 从响应体提取 GenerationResult
//
// 任一层缺失都得到包装 llm.ErrNoContent 的 ResponseError。
func ExtractResult(body []byte) (*llm.GenerationResult, error) {
	resp, err := ParseResponse(body)
	if err != nil {
		return nil, err
	}

	candidate, ok := resp.FirstCandidate()
	if !ok {
		return nil, llm.NewResponseError("candidates", llm.ErrNoContent)
	}

	text, ok := candidate.FirstText()
	if !ok {
		return nil, llm.NewResponseError(FieldText, llm.ErrNoContent)
	}

	return &llm.GenerationResult{
		Text:    text,
		Sources: candidate.Sources(),
	}, nil
}
