// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fortivix/guardmarket/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram
	// HTTP 响应大小
	HTTPResponseSize prometheus.Histogram

	// 数据库查询计数
	DBQueriesTotal prometheus.Counter
	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// Redis 操作计数
	RedisOpsTotal prometheus.Counter

	// 业务指标
	DraftSavesTotal      prometheus.Counter
	DocumentUploadsTotal prometheus.Counter
	UploadDuration       prometheus.Histogram
	SubmissionsTotal     prometheus.Counter
	SubmissionFailures   prometheus.Counter
	LoginLinksSentTotal  prometheus.Counter
	NotificationsTotal   prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		// HTTP 指标
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPResponseSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
		}),

		// 数据库指标
		DBQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "db_queries_total",
			Help:      "Total database queries",
		}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		// Redis 指标
		RedisOpsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "redis_ops_total",
			Help:      "Total Redis operations",
		}),

		// 业务指标
		DraftSavesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "draft_saves_total",
			Help:      "Total onboarding draft saves",
		}),
		DocumentUploadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "document_uploads_total",
			Help:      "Total verification documents uploaded",
		}),
		UploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "document_upload_duration_seconds",
			Help:      "Document upload duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		SubmissionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "applications_submitted_total",
			Help:      "Total guard applications submitted",
		}),
		SubmissionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "application_submit_failures_total",
			Help:      "Total failed guard application submissions",
		}),
		LoginLinksSentTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "login_links_sent_total",
			Help:      "Total login links sent",
		}),
		NotificationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "guardmarket",
			Subsystem: serviceName,
			Name:      "notifications_total",
			Help:      "Total notifications recorded",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	metrics := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.RedisOpsTotal,
		m.DraftSavesTotal,
		m.DocumentUploadsTotal,
		m.UploadDuration,
		m.SubmissionsTotal,
		m.SubmissionFailures,
		m.LoginLinksSentTotal,
		m.NotificationsTotal,
	}

	for _, metric := range metrics {
		if err := prometheus.DefaultRegisterer.Register(metric); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// Handler 返回 Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()

	return nil
}
