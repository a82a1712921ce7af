// Package metrics 翻译服务的Prometheus指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "translator"

// Metrics 服务指标，使用独立的registry
type Metrics struct {
	registry *prometheus.Registry

	Translations        *prometheus.CounterVec
	TranslationDuration *prometheus.HistogramVec
	MessagesConsumed    *prometheus.CounterVec
	MalformedMessages   prometheus.Counter
	PublishErrors       *prometheus.CounterVec
	ConsumerErrors      prometheus.Counter
}

// NewMetrics 创建并注册所有指标
func NewMetrics() *Metrics {
	var m Metrics
	m.registry = prometheus.NewRegistry()

	m.Translations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "translations_total",
		Help:      "The total number of translation requests by surface and result status.",
	},
		[]string{"surface", "status"})
	m.registry.MustRegister(m.Translations)

	m.TranslationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "translation_duration_seconds",
		Help:      "The time taken by the translation provider.",
		Buckets:   prometheus.DefBuckets,
	},
		[]string{"provider"})
	m.registry.MustRegister(m.TranslationDuration)

	m.MessagesConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "kafka",
		Name:      "messages_consumed_total",
		Help:      "The total number of consumed messages.",
	},
		[]string{"topic"})
	m.registry.MustRegister(m.MessagesConsumed)

	m.MalformedMessages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "kafka",
		Name:      "malformed_messages_total",
		Help:      "The total number of consumed messages that could not be decoded.",
	})
	m.registry.MustRegister(m.MalformedMessages)

	m.PublishErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "kafka",
		Name:      "publish_errors_total",
		Help:      "The total number of failed publishes.",
	},
		[]string{"topic"})
	m.registry.MustRegister(m.PublishErrors)

	m.ConsumerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "kafka",
		Name:      "consumer_errors_total",
		Help:      "The total number of consumer group errors.",
	})
	m.registry.MustRegister(m.ConsumerErrors)

	return &m
}

// Handler 返回 /metrics 的HTTP处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTranslation 记录一次完成的翻译
func (m *Metrics) ObserveTranslation(surface, provider, status string, took time.Duration) {
	m.Translations.WithLabelValues(surface, status).Inc()
	m.TranslationDuration.WithLabelValues(provider).Observe(took.Seconds())
}
