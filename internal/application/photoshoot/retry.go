package photoshoot

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sandrasocial/sselfie-9g-sub000/pkg/logger"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/metrics"
)

// RetryPolicy 节流重试与提交节奏参数
type RetryPolicy struct {
	// InterSubmitDelay 两次成功提交之间的固定间隔
	InterSubmitDelay time.Duration
	// MaxAttempts 单个姿势最多尝试次数（含首次）
	MaxAttempts int
	// Grace 在服务端建议等待时间之外额外等待
	Grace time.Duration
	// DefaultRetryAfter 服务端未给出建议时使用
	DefaultRetryAfter time.Duration
}

// DefaultRetryPolicy 11 秒节奏，最多 3 次，额外等待 2 秒
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InterSubmitDelay:  11 * time.Second,
		MaxAttempts:       3,
		Grace:             2 * time.Second,
		DefaultRetryAfter: 10 * time.Second,
	}
}

// ThrottleWait 计算节流后的等待时间：retryAfter + Grace
func (p RetryPolicy) ThrottleWait(retryAfter time.Duration) time.Duration {
	if retryAfter <= 0 {
		retryAfter = p.DefaultRetryAfter
	}
	return retryAfter + p.Grace
}

// Sleeper 可取消的等待，测试注入记录型实现
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc 函数适配器
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

type timerSleeper struct{}

// NewTimerSleeper 基于 time.Timer 的真实等待，ctx 取消时立即返回
func NewTimerSleeper() Sleeper { return timerSleeper{} }

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// throttleSignal 渲染客户端错误实现该接口
type throttleSignal interface {
	Throttled() bool
	RetryAfterHint() time.Duration
}

// classifyThrottle 判断是否为节流错误，并取出服务端建议的等待时间
func classifyThrottle(err error) (time.Duration, bool) {
	var ts throttleSignal
	if errors.As(err, &ts) {
		return ts.RetryAfterHint(), ts.Throttled()
	}
	return 0, strings.Contains(strings.ToLower(err.Error()), "throttled")
}

// RetryWithDelay 调用 fn，retryable 返回 true 时按其给出的等待时间重试；
// 返回值 attempts 为实际尝试次数。最后一次尝试之后不再等待。
func RetryWithDelay[T any](
	ctx context.Context,
	sleeper Sleeper,
	maxAttempts int,
	fn func(ctx context.Context) (T, error),
	retryable func(err error) (time.Duration, bool),
) (T, int, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var zero T
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt - 1, err
		}
		v, err := fn(ctx)
		if err == nil {
			return v, attempt, nil
		}
		lastErr = err
		wait, retry := retryable(err)
		if !retry {
			return zero, attempt, err
		}
		if attempt == maxAttempts {
			break
		}
		logger.Warn(ctx, "render provider throttled, backing off",
			"attempt", attempt, "max_attempts", maxAttempts, "wait", wait.String())
		metrics.RenderWaitSeconds.WithLabelValues("throttle").Add(wait.Seconds())
		if err := sleeper.Sleep(ctx, wait); err != nil {
			return zero, attempt, err
		}
	}
	return zero, maxAttempts, &ThrottleError{Attempts: maxAttempts, Err: lastErr}
}
