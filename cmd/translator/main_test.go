package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoyo3287258/title-translator/internal/model"
)

func writeConfig(t *testing.T, baseURL, apiKey string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf(`
llm:
  provider: gemini
  base_url: %s
  api_key: %q
  model: gemini-1.5-flash
  timeout: 5s
log:
  level: error
`, baseURL, apiKey)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(args ...string) (string, error) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTranslateCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Rapport trimestriel"}]}}]}`))
	}))
	defer server.Close()

	out, err := execute("translate", "-c", writeConfig(t, server.URL, "test-key"), "--id", "doc-1", "-t", "fr", "Quarterly", "Report")
	require.NoError(t, err)

	var resp model.TranslationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "doc-1", resp.DocumentID)
	assert.Equal(t, "Quarterly Report", resp.OriginalTitle)
	assert.Equal(t, "fr", resp.TargetLanguage)
	assert.Equal(t, model.StatusCompleted, resp.Status)
	require.NotNil(t, resp.TranslatedTitle)
	assert.Equal(t, "Rapport trimestriel", *resp.TranslatedTitle)
}

func TestTranslateCommand_MissingKey(t *testing.T) {
	out, err := execute("translate", "-c", writeConfig(t, "http://127.0.0.1:1", ""), "Hello")
	require.Error(t, err)

	var resp model.TranslationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, model.StatusFailed, resp.Status)
	assert.Nil(t, resp.TranslatedTitle)
}

func TestModelsCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models", r.URL.Path)
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	out, err := execute("models", "-c", writeConfig(t, server.URL, "test-key"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"models":[]}`, out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute("version")
	require.NoError(t, err)
	assert.Contains(t, out, "Title Translator dev")
}
