package core

import (
	"context"
	"time"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
)

const (
	// DefaultMaxAttempts 默认最大尝试次数（含首次）
	DefaultMaxAttempts = 5

	// DefaultBaseDelay 首次重试前的等待时间
	DefaultBaseDelay = time.Second

	// MaxAttemptsLimit 可配置的最大尝试次数上限
	MaxAttemptsLimit = 10

	// MaxDelay 单次等待上限
	MaxDelay = 5 * time.Minute
)

// ═══════════════════════════════════════════════════════════════════════════
// 状态转移
// ═══════════════════════════════════════════════════════════════════════════

// Step 单次尝试之后的转移
type Step int

const (
	// StepSucceed 成功，终态
	StepSucceed Step = iota
	// StepRetry 等待 Delay 后进入下一次尝试
	StepRetry
	// StepFail 失败，终态
	StepFail
)

func (s Step) String() string {
	switch s {
	case StepSucceed:
		return "succeed"
	case StepRetry:
		return "retry"
	case StepFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Decision 转移结果
type Decision struct {
	Step  Step
	Delay time.Duration
}

// ═══════════════════════════════════════════════════════════════════════════
// RetryPolicy
// ═══════════════════════════════════════════════════════════════════════════

// RetryPolicy 限流重试策略
//
// 状态机（n 从 0 开始）：
//
//	Attempting(n) --429, n+1 < MaxAttempts--> sleep(Delay(n)) --> Attempting(n+1)
//	Attempting(n) --429, 次数耗尽---------> Failed(rate limit)
//	Attempting(n) --其他错误--------------> Failed(err)
//	Attempting(n) --成功------------------> Succeeded
//
// Delay(n) = BaseDelay * 2^n，固定序列，无抖动，上限 MaxDelay；
// MaxAttempts 超过 MaxAttemptsLimit 时按上限处理。
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultRetryPolicy 默认策略：5 次尝试，1s 起步
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
	}
}

func (p RetryPolicy) maxAttempts() int {
	switch {
	case p.MaxAttempts <= 0:
		return DefaultMaxAttempts
	case p.MaxAttempts > MaxAttemptsLimit:
		return MaxAttemptsLimit
	default:
		return p.MaxAttempts
	}
}

// Delay 第 attempt 次尝试（从 0 开始）失败后的等待时间
//
// 结果不超过 MaxDelay。
func (p RetryPolicy) Delay(attempt int) time.Duration {
	d := p.BaseDelay
	if d <= 0 {
		d = DefaultBaseDelay
	}
	if d >= MaxDelay {
		return MaxDelay
	}
	for i := 0; i < attempt; i++ {
		if d > MaxDelay/2 {
			return MaxDelay
		}
		d *= 2
	}
	return d
}

// Decide 根据第 attempt 次尝试的结果决定下一步
func (p RetryPolicy) Decide(attempt int, err error) Decision {
	if err == nil {
		return Decision{Step: StepSucceed}
	}
	if llm.IsRetryableError(err) && attempt+1 < p.maxAttempts() {
		return Decision{Step: StepRetry, Delay: p.Delay(attempt)}
	}
	return Decision{Step: StepFail}
}

// ═══════════════════════════════════════════════════════════════════════════
// 执行
// ═══════════════════════════════════════════════════════════════════════════

// Sleeper 等待函数，可在测试中替换
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep 默认等待实现，ctx 取消时提前返回
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryHook 每次决定重试时回调
type RetryHook func(attempt int, delay time.Duration, err error)

// Do 按策略执行 fn
//
// fn 的 attempt 参数从 0 开始。因 429 耗尽次数时返回 llm.RateLimitError，
// 其余错误原样返回。
func (p RetryPolicy) Do(ctx context.Context, sleep Sleeper, onRetry RetryHook, fn func(attempt int) error) error {
	if sleep == nil {
		sleep = Sleep
	}

	for attempt := 0; ; attempt++ {
		err := fn(attempt)

		d := p.Decide(attempt, err)
		switch d.Step {
		case StepSucceed:
			return nil

		case StepRetry:
			if onRetry != nil {
				onRetry(attempt, d.Delay, err)
			}
			if sleepErr := sleep(ctx, d.Delay); sleepErr != nil {
				return sleepErr
			}

		default:
			if apiErr, ok := llm.GetAPIError(err); ok && apiErr.IsRateLimited() {
				return llm.NewRateLimitError(apiErr, attempt+1)
			}
			return err
		}
	}
}
