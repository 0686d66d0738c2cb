package rendering

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// APIError 渲染服务返回的非 2xx 响应
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("rendering api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("rendering api: status %d: %s", e.StatusCode, e.Message)
}

// Throttled 429 或消息中包含 throttled 视为限流
func (e *APIError) Throttled() bool {
	return e.StatusCode == http.StatusTooManyRequests ||
		strings.Contains(strings.ToLower(e.Message), "throttled")
}

// RetryAfterHint 服务端建议的等待时间，未提供时为 0
func (e *APIError) RetryAfterHint() time.Duration {
	return e.RetryAfter
}
