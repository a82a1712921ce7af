package translator

import (
	"context"
	"errors"
	"fmt"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService 通过 Google Cloud Translation 接口翻译
type GoogleService struct {
	credentials string
	apiKey      string
}

// NewGoogleService 创建Google翻译服务，credentialsFile 和 apiKey 均可为空（使用默认凭据）
func NewGoogleService(credentialsFile, apiKey string) *GoogleService {
	return &GoogleService{credentials: credentialsFile, apiKey: apiKey}
}

// Name 服务名称
func (s *GoogleService) Name() string {
	return "google"
}

// Translate 翻译文本，错误按类型包装为 TranslationError
func (s *GoogleService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	target, source, err := parseLanguages(sourceLang, targetLang)
	if err != nil {
		return "", newError(KindConfiguration, s.Name(), err)
	}

	client, err := translate.NewClient(ctx, s.clientOptions()...)
	if err != nil {
		return "", newError(KindConfiguration, s.Name(), fmt.Errorf("failed to create client: %w", err))
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{text}, target, &translate.Options{
		Source: source,
		Format: translate.Text,
	})
	if err != nil {
		return "", newError(KindTransport, s.Name(), fmt.Errorf("translation request failed: %w", err))
	}

	if len(translations) == 0 || translations[0].Text == "" {
		return "", newError(KindResponseShape, s.Name(), errors.New("no translation returned"))
	}

	return translations[0].Text, nil
}

func (s *GoogleService) clientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if s.credentials != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}
	if s.apiKey != "" {
		opts = append(opts, option.WithAPIKey(s.apiKey))
	}
	return opts
}

// parseLanguages 校验语言代码；源语言为空或 "auto" 时由服务方自动检测
func parseLanguages(sourceLang, targetLang string) (language.Tag, language.Tag, error) {
	target, err := language.Parse(targetLang)
	if err != nil {
		return language.Und, language.Und, fmt.Errorf("invalid target language %q: %w", targetLang, err)
	}

	if sourceLang == "" || sourceLang == "auto" {
		return target, language.Und, nil
	}

	source, err := language.Parse(sourceLang)
	if err != nil {
		return language.Und, language.Und, fmt.Errorf("invalid source language %q: %w", sourceLang, err)
	}
	return target, source, nil
}
