package core

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm"
	"github.com/lwmacct/251016-go-pkg-landing/pkg/llm/protocol/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleeper 记录等待时间而不真正等待
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func rateLimited() error {
	return llm.NewAPIError(http.StatusTooManyRequests, "Resource exhausted", "")
}

// ═══════════════════════════════════════════════════════════════════════════
// Delay / Decide 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestRetryPolicy_Delay(t *testing.T) {
	p := DefaultRetryPolicy()

	expected := []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
	for n, want := range expected {
		assert.Equal(t, want, p.Delay(n), "attempt %d", n)
	}
}

func TestRetryPolicy_DelayBounded(t *testing.T) {
	p := DefaultRetryPolicy()

	assert.Equal(t, 256*time.Second, p.Delay(8))
	assert.Equal(t, MaxDelay, p.Delay(9))
	for _, n := range []int{34, 63, 64, 1000} {
		assert.Equal(t, MaxDelay, p.Delay(n), "attempt %d", n)
	}

	big := RetryPolicy{BaseDelay: time.Hour}
	assert.Equal(t, MaxDelay, big.Delay(0))
}

func TestRetryPolicy_MaxAttemptsLimit(t *testing.T) {
	p := RetryPolicy{MaxAttempts: 100, BaseDelay: time.Second}
	sleeper := &recordingSleeper{}

	calls := 0
	err := p.Do(context.Background(), sleeper.Sleep, nil, func(int) error {
		calls++
		return rateLimited()
	})

	require.Error(t, err)
	assert.True(t, llm.IsRateLimitError(err))
	assert.Equal(t, MaxAttemptsLimit, calls)
	require.Len(t, sleeper.delays, MaxAttemptsLimit-1)
	for _, d := range sleeper.delays {
		assert.Positive(t, d)
		assert.LessOrEqual(t, d, MaxDelay)
	}
}

func TestRetryPolicy_ZeroValueUsesDefaults(t *testing.T) {
	var p RetryPolicy

	assert.Equal(t, time.Second, p.Delay(0))
	assert.Equal(t, StepRetry, p.Decide(3, rateLimited()).Step)
	assert.Equal(t, StepFail, p.Decide(4, rateLimited()).Step)
}

func TestRetryPolicy_Decide(t *testing.T) {
	p := DefaultRetryPolicy()

	tests := []struct {
		name    string
		attempt int
		err     error
		step    Step
		delay   time.Duration
	}{
		{"成功", 0, nil, StepSucceed, 0},
		{"首次 429", 0, rateLimited(), StepRetry, time.Second},
		{"第 4 次 429", 3, rateLimited(), StepRetry, 8 * time.Second},
		{"最后一次 429", 4, rateLimited(), StepFail, 0},
		{"403 不重试", 0, llm.NewAPIError(403, "forbidden", ""), StepFail, 0},
		{"500 不重试", 0, llm.NewAPIError(500, "boom", ""), StepFail, 0},
		{"提取失败不重试", 0, llm.NewResponseError(gemini.FieldText, llm.ErrNoContent), StepFail, 0},
		{"网络错误不重试", 0, llm.NewHTTPError("request failed", errors.New("dial")), StepFail, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Decide(tt.attempt, tt.err)
			assert.Equal(t, tt.step, d.Step)
			assert.Equal(t, tt.delay, d.Delay)
		})
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Do 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestRetryPolicy_Do_SucceedsAfterRateLimits(t *testing.T) {
	sleeper := &recordingSleeper{}
	var hooks []int

	calls := 0
	err := DefaultRetryPolicy().Do(context.Background(), sleeper.Sleep,
		func(attempt int, _ time.Duration, _ error) { hooks = append(hooks, attempt) },
		func(attempt int) error {
			assert.Equal(t, calls, attempt)
			calls++
			if calls <= 2 {
				return rateLimited()
			}
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
	assert.Equal(t, []int{0, 1}, hooks)
}

func TestRetryPolicy_Do_ExhaustsAttempts(t *testing.T) {
	sleeper := &recordingSleeper{}

	calls := 0
	err := DefaultRetryPolicy().Do(context.Background(), sleeper.Sleep, nil, func(int) error {
		calls++
		return rateLimited()
	})

	require.Error(t, err)
	assert.True(t, llm.IsRateLimitError(err))
	assert.Equal(t, 429, llm.GetStatusCode(err))
	assert.Equal(t, 5, calls)
	assert.Equal(t, []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
	}, sleeper.delays, "最后一次失败后不再等待")

	var rl *llm.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 5, rl.Attempts)
}

func TestRetryPolicy_Do_TerminalErrorNoDelay(t *testing.T) {
	sleeper := &recordingSleeper{}
	forbidden := llm.NewAPIError(http.StatusForbidden, "API key not valid", "")

	calls := 0
	err := DefaultRetryPolicy().Do(context.Background(), sleeper.Sleep, nil, func(int) error {
		calls++
		return forbidden
	})

	require.ErrorIs(t, err, forbidden)
	assert.False(t, llm.IsRateLimitError(err))
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestRetryPolicy_Do_SleepCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := DefaultRetryPolicy().Do(ctx, Sleep, nil, func(int) error {
		calls++
		return rateLimited()
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_Do_SingleAttempt(t *testing.T) {
	sleeper := &recordingSleeper{}
	p := RetryPolicy{MaxAttempts: 1, BaseDelay: time.Millisecond}

	err := p.Do(context.Background(), sleeper.Sleep, nil, func(int) error { return rateLimited() })

	assert.True(t, llm.IsRateLimitError(err))
	assert.Empty(t, sleeper.delays)
}

// ═══════════════════════════════════════════════════════════════════════════
// Sleep 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, Sleep(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestStep_String(t *testing.T) {
	assert.Equal(t, "succeed", StepSucceed.String())
	assert.Equal(t, "retry", StepRetry.String())
	assert.Equal(t, "fail", StepFail.String())
	assert.Equal(t, "unknown", Step(99).String())
}
