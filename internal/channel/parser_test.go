package channel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoyo3287258/title-translator/internal/model"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    model.TranslationRequest
	}{
		{
			name:    "raw message",
			payload: "doc-123:Quarterly Report",
			want:    model.TranslationRequest{DocumentID: "doc-123", Title: "Quarterly Report", SourceLanguage: "en", TargetLanguage: "es"},
		},
		{
			name:    "raw message splits on first colon",
			payload: "doc-7:Budget: 2025 Plan",
			want:    model.TranslationRequest{DocumentID: "doc-7", Title: "Budget: 2025 Plan", SourceLanguage: "en", TargetLanguage: "es"},
		},
		{
			name:    "json string literal",
			payload: `"doc-123:Quarterly Report"`,
			want:    model.TranslationRequest{DocumentID: "doc-123", Title: "Quarterly Report", SourceLanguage: "en", TargetLanguage: "es"},
		},
		{
			name:    "structured request with defaults",
			payload: `{"documentId":"doc-1","title":"Annual Review"}`,
			want:    model.TranslationRequest{DocumentID: "doc-1", Title: "Annual Review", SourceLanguage: "en", TargetLanguage: "es"},
		},
		{
			name:    "structured request with languages",
			payload: ` {"documentId":"doc-2","title":"Hola","sourceLanguage":"es","targetLanguage":"de"}`,
			want:    model.TranslationRequest{DocumentID: "doc-2", Title: "Hola", SourceLanguage: "es", TargetLanguage: "de"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		parser  string
	}{
		{name: "missing colon", payload: "doc-123", parser: "raw"},
		{name: "empty payload", payload: "   ", parser: "raw"},
		{name: "empty document id", payload: ":Title", parser: "raw"},
		{name: "empty title", payload: "doc-1:", parser: "raw"},
		{name: "broken json", payload: `{"documentId":`, parser: "json"},
		{name: "json without title", payload: `{"documentId":"doc-1"}`, parser: "json"},
		{name: "json without document id", payload: `{"title":"x"}`, parser: "json"},
		{name: "unterminated json string", payload: `"doc-1:abc`, parser: "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.Error(t, err)

			var formatErr *FormatError
			require.True(t, errors.As(err, &formatErr))
			assert.Equal(t, tt.parser, formatErr.Parser)
		})
	}
}
