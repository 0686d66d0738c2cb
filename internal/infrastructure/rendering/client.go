package rendering

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"

	"github.com/sandrasocial/sselfie-9g-sub000/internal/config"
	"github.com/sandrasocial/sselfie-9g-sub000/internal/domain/entity"
	"github.com/sandrasocial/sselfie-9g-sub000/pkg/metrics"
)

var tracer = otel.Tracer("rendering")

const maxErrorBody = 64 << 10

// Client 渲染服务客户端，只负责提交任务，不轮询结果
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient 创建渲染服务客户端
func NewClient(cfg *config.RenderingConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithHTTP(cfg.BaseURL, cfg.APIToken, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP 使用自定义 http.Client 创建客户端
func NewClientWithHTTP(baseURL, token string, hc *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: hc,
	}
}

// Submit 提交一个渲染任务，返回任务句柄 ID
func (c *Client) Submit(ctx context.Context, spec entity.RenderJobSpec) (string, error) {
	ctx, span := tracer.Start(ctx, "rendering.Submit")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("render.seed", spec.Seed),
		attribute.String("render.aspect_ratio", spec.AspectRatio),
	)

	start := time.Now()
	id, err := c.submit(ctx, spec)
	metrics.RenderSubmitDuration.Observe(time.Since(start).Seconds())

	var apiErr *APIError
	switch {
	case err == nil:
		metrics.RenderSubmissionsTotal.WithLabelValues("success").Inc()
		span.SetAttributes(attribute.String("render.job_id", id))
	case errors.As(err, &apiErr) && apiErr.Throttled():
		metrics.RenderSubmissionsTotal.WithLabelValues("throttled").Inc()
		span.RecordError(err)
	default:
		metrics.RenderSubmissionsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
	}
	return id, err
}

func (c *Client) submit(ctx context.Context, spec entity.RenderJobSpec) (string, error) {
	body, err := json.Marshal(newPredictionRequest(spec))
	if err != nil {
		return "", fmt.Errorf("failed to marshal prediction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit prediction: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", newAPIError(resp, raw)
	}

	var pr predictionResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return "", fmt.Errorf("failed to decode prediction: %w", err)
	}
	if pr.ID == "" {
		return "", errors.New("rendering api returned an empty prediction id")
	}
	return pr.ID, nil
}

func newAPIError(resp *http.Response, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var er errorResponse
	if err := json.Unmarshal(raw, &er); err == nil {
		apiErr.Message = er.message()
		if er.RetryAfter > 0 {
			apiErr.RetryAfter = time.Duration(er.RetryAfter * float64(time.Second))
		}
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	if apiErr.RetryAfter == 0 {
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	}
	return apiErr
}

// parseRetryAfter 支持秒数与 HTTP 日期两种格式
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs * float64(time.Second))
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
