// Package strategy 生成落地页初始策略简报
//
// 用户提交项目描述，[Planner] 以 CRO 策略师的身份调用生成服务，
// 始终启用联网检索，返回简报正文与引用来源。
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
)

const (
	// MinDescriptionLength 项目描述的最少字符数（去除首尾空白后按 rune 计）
	MinDescriptionLength = 20

	// QueryPrefix 发送给模型的提示词前缀
	QueryPrefix = "Project details for initial strategy brief: "

	// SystemPrompt CRO 策略师系统指令
	SystemPrompt = "Act as a world-class Conversion Rate Optimization (CRO) strategist and digital marketing expert. " +
		"Your task is to analyze the provided project description and generate a concise, professional, and actionable " +
		"initial strategy brief for a high-conversion landing page. The output must be structured using Arabic Markdown " +
		"headings and bullet points. Focus on: 1. Target Audience Hypothesis, 2. Key Value Proposition (UVP) Suggestion, " +
		"3. Recommended Design Elements (e.g., Social Proof, Urgency), 4. A single Call-to-Action (CTA) suggestion. " +
		"Use Google Search to ground your suggestions with current industry best practices and data, especially if a " +
		"specific industry is mentioned. Keep the response professional and highly relevant to the goal of high conversion."
)

// ErrDescriptionTooShort 项目描述过短
var ErrDescriptionTooShort = fmt.Errorf("project description must be at least %d characters", MinDescriptionLength)

// BuildRequest 由项目描述构造生成请求
//
// 描述去除首尾空白后不足 MinDescriptionLength 个字符时返回 RequestError，
// 不会发出任何请求。描述本身原样拼接在 QueryPrefix 之后。
func BuildRequest(description string) (llm.GenerationRequest, error) {
	if utf8.RuneCountInString(strings.TrimSpace(description)) < MinDescriptionLength {
		return llm.GenerationRequest{}, llm.NewRequestError("validate", ErrDescriptionTooShort)
	}

	return llm.GenerationRequest{
		Prompt:            QueryPrefix + description,
		SystemInstruction: SystemPrompt,
		UseGrounding:      true,
	}, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Planner
// ═══════════════════════════════════════════════════════════════════════════

// Planner 策略简报生成器
type Planner struct {
	gen llm.Generator
}

// NewPlanner 创建策略简报生成器
func NewPlanner(gen llm.Generator) *Planner {
	return &Planner{gen: gen}
}

// Brief 为项目描述生成策略简报
func (p *Planner) Brief(ctx context.Context, description string) (*llm.GenerationResult, error) {
	if p == nil || p.gen == nil {
		return nil, llm.NewConfigError("generator is required", nil)
	}

	req, err := BuildRequest(description)
	if err != nil {
		return nil, err
	}
	return p.gen.Generate(ctx, req)
}

// IsDescriptionTooShort 检查错误是否因项目描述过短
func IsDescriptionTooShort(err error) bool {
	return errors.Is(err, ErrDescriptionTooShort)
}
