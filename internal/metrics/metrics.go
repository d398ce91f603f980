// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// 上流クライアント、ファセット収集、HTTPミドルウェアから利用する。
type MetricsCollector interface {
	ObserveUpstream(operation string, statusCode int, duration time.Duration)
	RecordFacetPagesScanned(pages int)
	RecordHTTPStatus(route string, statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	facetPages       prometheus.Counter
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentgrid_upstream_requests_total",
			Help: "Notion API呼び出しの合計数（操作とステータスコード別）",
		}, []string{"operation", "status_code"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentgrid_upstream_latency_seconds",
			Help:    "Notion API呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		facetPages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "contentgrid_facet_pages_scanned_total",
			Help: "ファセット収集でスキャンしたページ数の合計",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentgrid_http_status_total",
			Help: "ルートとHTTPステータスコード別のレスポンス数",
		}, []string{"route", "status_code"}),
	}

	reg.MustRegister(
		c.upstreamRequests,
		c.upstreamLatency,
		c.facetPages,
		c.httpStatus,
	)

	return c
}

// ObserveUpstream はNotion API呼び出し1回の結果を記録する。
// statusCodeが0の場合はネットワークエラーとして"error"ラベルで記録する。
func (c *Collector) ObserveUpstream(operation string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	c.upstreamRequests.WithLabelValues(operation, status).Inc()
	c.upstreamLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFacetPagesScanned はファセット収集でスキャンしたページ数を記録する。
func (c *Collector) RecordFacetPagesScanned(pages int) {
	c.facetPages.Add(float64(pages))
}

// RecordHTTPStatus はHTTPレスポンスのステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(route string, statusCode int) {
	c.httpStatus.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
