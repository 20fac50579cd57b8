// Package metrics 导入流程的 Prometheus 指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "strategiccategory"

// Ingest 导入指标；nil 接收者上的方法均为空操作
type Ingest struct {
	registry       *prometheus.Registry
	filesProcessed *prometheus.CounterVec
	rowsDropped    *prometheus.CounterVec
	importDuration prometheus.Histogram
	batches        *prometheus.CounterVec
}

// New 使用独立的 Registry 创建指标
func New() *Ingest {
	m := &Ingest{
		registry: prometheus.NewRegistry(),
		filesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "files_total",
			Help:      "Uploaded files by upload kind and result status.",
		}, []string{"kind", "status"}),
		rowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_dropped_total",
			Help:      "Rows dropped while parsing, by reason.",
		}, []string{"reason"}),
		importDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batch_duration_seconds",
			Help:      "Wall time of one upload batch.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "batches_total",
			Help:      "Upload batches by outcome.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.filesProcessed,
		m.rowsDropped,
		m.importDuration,
		m.batches,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry 返回底层 Registry
func (m *Ingest) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler /metrics 的 HTTP 处理器
func (m *Ingest) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFile 记录一个文件的处理结果
func (m *Ingest) ObserveFile(kind, status string) {
	if m == nil {
		return
	}
	m.filesProcessed.WithLabelValues(kind, status).Inc()
}

// AddDroppedRows 记录被丢弃的行
func (m *Ingest) AddDroppedRows(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rowsDropped.WithLabelValues(reason).Add(float64(n))
}

// ObserveBatch 记录一次批次的耗时与结果
func (m *Ingest) ObserveBatch(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.batches.WithLabelValues(status).Inc()
	m.importDuration.Observe(d.Seconds())
}
