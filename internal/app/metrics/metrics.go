// Package metrics 提供Prometheus指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "avsepg"

var (
	// FetchRequestsTotal 按结果统计请求节目单接口的次数
	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Total number of live channel requests by result",
		},
		[]string{"result"},
	)

	// FetchDuration 请求节目单接口的耗时
	FetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of live channel requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	ChannelsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "channels_total",
			Help:      "Number of channels in the last generated document",
		},
	)

	ProgrammesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "programmes_total",
			Help:      "Number of programmes in the last generated document",
		},
	)

	LastSuccessTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successfully generated document",
		},
	)
)

// Fetch results
const (
	ResultSuccess   = "success"
	ResultError     = "error"
	ResultMalformed = "malformed"
)

// RecordFetch 记录一次节目单请求
func RecordFetch(result string, duration time.Duration) {
	FetchRequestsTotal.WithLabelValues(result).Inc()
	FetchDuration.Observe(duration.Seconds())
}

// RecordGenerated 记录一次成功生成的文档
func RecordGenerated(channels, programmes int) {
	ChannelsTotal.Set(float64(channels))
	ProgrammesTotal.Set(float64(programmes))
	LastSuccessTimestamp.SetToCurrentTime()
}
