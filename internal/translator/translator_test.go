package translator

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/llm"
)

func newGemini(url, key string) *GeminiService {
	return NewGeminiService(llm.NewClient(&config.LLMConfig{
		BaseURL: url,
		APIKey:  key,
		Model:   "gemini-1.5-flash",
		Timeout: 5 * time.Second,
	}))
}

func TestGeminiService_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Informe trimestral"}]}}]}`))
	}))
	defer server.Close()

	svc := newGemini(server.URL, "test-key")
	got, err := svc.Translate(context.Background(), "Quarterly Report", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "Informe trimestral", got)
	assert.Equal(t, "gemini", svc.Name())
}

func TestGeminiService_Errors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"foo":"bar"}`))
	}))
	defer server.Close()

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	tests := []struct {
		name     string
		svc      *GeminiService
		sentinel error
		kind     Kind
	}{
		{name: "missing key", svc: newGemini(server.URL, ""), sentinel: ErrConfiguration, kind: KindConfiguration},
		{name: "non-2xx", svc: newGemini(failing.URL, "k"), sentinel: ErrTransport, kind: KindTransport},
		{name: "unreachable", svc: newGemini("http://127.0.0.1:1", "k"), sentinel: ErrTransport, kind: KindTransport},
		{name: "no candidates", svc: newGemini(server.URL, "k"), sentinel: ErrResponseShape, kind: KindResponseShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.Translate(context.Background(), "Hello", "en", "es")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Equal(t, tt.kind, KindOf(err))
			assert.NotEmpty(t, err.Error())

			var te *TranslationError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, "gemini", te.Provider)
		})
	}

	// only the "no candidates" case reached the well-formed server
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiService_ListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	var lister ModelLister = newGemini(server.URL, "k")
	body, err := lister.ListModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"models":[]}`, string(body))

	_, err = newGemini(server.URL, "").ListModels(context.Background())
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestGeminiService_SetAPIKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hallo"}]}}]}`))
	}))
	defer server.Close()

	svc := newGemini(server.URL, "")
	var rotator KeyRotator = svc
	rotator.SetAPIKey("new-key")

	got, err := svc.Translate(context.Background(), "Hello", "en", "de")
	require.NoError(t, err)
	assert.Equal(t, "Hallo", got)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "configuration", KindConfiguration.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "response_shape", KindResponseShape.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))
}

func TestParseLanguages(t *testing.T) {
	target, source, err := parseLanguages("en", "es")
	require.NoError(t, err)
	assert.Equal(t, "es", target.String())
	assert.Equal(t, "en", source.String())

	_, source, err = parseLanguages("auto", "fr")
	require.NoError(t, err)
	assert.Equal(t, "und", source.String())

	_, _, err = parseLanguages("en", "not a language")
	assert.Error(t, err)
}

func TestGoogleService_InvalidLanguage(t *testing.T) {
	svc := NewGoogleService("", "")
	_, err := svc.Translate(context.Background(), "Hello", "en", "!!")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, "google", svc.Name())
}

func TestNew(t *testing.T) {
	tr, err := New(&config.LLMConfig{Provider: config.ProviderGemini, Timeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "gemini", tr.Name())
	_, ok := tr.(ModelLister)
	assert.True(t, ok)

	tr, err = New(&config.LLMConfig{Provider: config.ProviderGoogle})
	require.NoError(t, err)
	assert.Equal(t, "google", tr.Name())
	_, ok = tr.(ModelLister)
	assert.False(t, ok)

	_, err = New(&config.LLMConfig{Provider: "deepl"})
	assert.Error(t, err)
}
