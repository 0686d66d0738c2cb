// Package metrics 提供 Prometheus 指标采集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "sselfie"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			// 创建拍摄请求会持续数分钟
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 240},
		},
		[]string{"method", "path"},
	)

	// 业务指标 - 拍摄批次
	PhotoshootBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "photoshoot",
			Name:      "batches_total",
			Help:      "Total number of photoshoot batch requests by outcome",
		},
		[]string{"outcome"},
	)

	PhotoshootBatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "photoshoot",
			Name:      "batch_size",
			Help:      "Number of pose jobs requested per batch",
			Buckets:   []float64{6, 7, 8, 9},
		},
	)

	PhotoshootDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "photoshoot",
			Name:      "duration_seconds",
			Help:      "End-to-end photoshoot creation duration in seconds",
			Buckets:   []float64{10, 30, 60, 90, 120, 180, 300},
		},
	)

	// 渲染服务指标
	RenderSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "submissions_total",
			Help:      "Total number of render job submission attempts",
		},
		[]string{"status"}, // success / throttled / error
	)

	RenderSubmitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "submit_duration_seconds",
			Help:      "Render job submission latency in seconds",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	RenderWaitSeconds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "wait_seconds_total",
			Help:      "Seconds spent waiting between submissions",
		},
		[]string{"reason"}, // pacing / throttle
	)

	// LLM 指标
	LLMCallTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_total",
			Help:      "Total number of LLM calls",
		},
		[]string{"workflow", "provider", "status"},
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "LLM call duration in seconds",
			Buckets:   []float64{.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"workflow", "provider"},
	)

	LLMTokensUsed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "tokens_used_total",
			Help:      "Total tokens used for LLM calls",
		},
		[]string{"workflow", "provider", "type"}, // type: prompt/completion
	)

	// 积分指标
	CreditsDebitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credits",
			Name:      "debited_total",
			Help:      "Total credits debited for photoshoots",
		},
	)

	CreditDebitFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credits",
			Name:      "debit_failures_total",
			Help:      "Debits that failed after the batch was persisted",
		},
	)

	// 消息指标
	StreamPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "redis",
			Name:      "stream_published_total",
			Help:      "Total number of Redis stream messages published",
		},
		[]string{"stream", "status"},
	)
)
