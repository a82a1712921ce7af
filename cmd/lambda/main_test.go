package main

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoyo3287258/title-translator/internal/logger"
	"github.com/yoyo3287258/title-translator/internal/model"
	"github.com/yoyo3287258/title-translator/internal/service"
)

type echoTranslator struct{}

func (echoTranslator) Name() string { return "echo" }

func (echoTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	return targetLang + ":" + text, nil
}

type fakeInvoker struct {
	mu       sync.Mutex
	payloads [][]byte
	err      error
}

func (f *fakeInvoker) Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if params.InvocationType != types.InvocationTypeEvent {
		return nil, errors.New("expected async invocation")
	}
	f.payloads = append(f.payloads, params.Payload)
	return &lambdasdk.InvokeOutput{}, f.err
}

func stubInvoker(t *testing.T, inv invoker) {
	orig := newInvoker
	newInvoker = func(ctx context.Context) (invoker, error) { return inv, nil }
	t.Cleanup(func() { newInvoker = orig })
}

func newTestHandler() *handler {
	log := logger.NewDiscard()
	return newHandler(service.New(echoTranslator{}, nil, log), log)
}

func TestHandleRequest_Translation(t *testing.T) {
	h := newTestHandler()

	out, err := h.handleRequest(context.Background(), json.RawMessage(`{"documentId":"doc-1","title":"Quarterly Report"}`))
	require.NoError(t, err)

	resp, ok := out.(model.TranslationResponse)
	require.True(t, ok)
	assert.Equal(t, model.StatusCompleted, resp.Status)
	require.NotNil(t, resp.TranslatedTitle)
	assert.Equal(t, "es:Quarterly Report", *resp.TranslatedTitle)
	assert.Equal(t, "en", resp.SourceLanguage)
}

func TestHandleRequest_EmptyTitle(t *testing.T) {
	h := newTestHandler()

	out, err := h.handleRequest(context.Background(), json.RawMessage(`{"documentId":"doc-1","title":""}`))
	require.NoError(t, err)

	resp := out.(model.TranslationResponse)
	assert.Equal(t, model.StatusFailed, resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, errEmptyTitle.Error(), *resp.Error)
}

func TestHandleRequest_InvalidJSON(t *testing.T) {
	h := newTestHandler()

	_, err := h.handleRequest(context.Background(), json.RawMessage(`"doc-1:Title"`))
	require.Error(t, err)
}

func TestIsWarmupEvent(t *testing.T) {
	w, ok := IsWarmupEvent(json.RawMessage(`{"source":"warmup","concurrency":3}`))
	require.True(t, ok)
	assert.Equal(t, 3, w.Concurrency)

	_, ok = IsWarmupEvent(json.RawMessage(`{"documentId":"doc-1","title":"x"}`))
	assert.False(t, ok)

	_, ok = IsWarmupEvent(json.RawMessage(`not json`))
	assert.False(t, ok)
}

func TestHandleRequest_Warmup(t *testing.T) {
	inv := &fakeInvoker{}
	stubInvoker(t, inv)
	h := newTestHandler()

	out, err := h.handleRequest(context.Background(), json.RawMessage(`{"source":"warmup","concurrency":2}`))
	require.NoError(t, err)

	resp := out.(WarmupResponse)
	assert.Equal(t, "warm", resp.Status)
	assert.Equal(t, 3, resp.InstancesWarmed)

	require.Len(t, inv.payloads, 2)
	for _, p := range inv.payloads {
		var ev WarmupEvent
		require.NoError(t, json.Unmarshal(p, &ev))
		assert.Equal(t, WarmupSource, ev.Source)
		assert.Zero(t, ev.Concurrency)
	}
}

func TestHandleWarmup_InvokeFailure(t *testing.T) {
	stubInvoker(t, &fakeInvoker{err: errors.New("throttled")})

	out, err := HandleWarmup(context.Background(), &WarmupEvent{Source: WarmupSource, Concurrency: 2}, logger.NewDiscard())
	require.NoError(t, err)
	assert.Equal(t, 1, out.(WarmupResponse).InstancesWarmed)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "gemini-1.5-flash", cfg.LLM.Model)
}
