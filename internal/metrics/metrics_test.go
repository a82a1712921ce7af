package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTranslation(t *testing.T) {
	m := NewMetrics()

	m.ObserveTranslation("http", "gemini", "COMPLETED", 120*time.Millisecond)
	m.ObserveTranslation("http", "gemini", "FAILED", 10*time.Millisecond)
	m.ObserveTranslation("kafka", "gemini", "COMPLETED", 50*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Translations.WithLabelValues("http", "COMPLETED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Translations.WithLabelValues("http", "FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Translations.WithLabelValues("kafka", "COMPLETED")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.MalformedMessages.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "translator_kafka_malformed_messages_total 1")
}

func TestConsumerErrorsExposed(t *testing.T) {
	m := NewMetrics()
	m.ConsumerErrors.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, rec.Body.String(), "translator_kafka_consumer_errors_total 1")
}
