package translator

import (
	"context"
	"errors"

	"github.com/yoyo3287258/title-translator/internal/llm"
)

// GeminiService 通过 Gemini generateContent 接口翻译
type GeminiService struct {
	client *llm.Client
}

// NewGeminiService 创建Gemini翻译服务
func NewGeminiService(client *llm.Client) *GeminiService {
	return &GeminiService{client: client}
}

// Name 服务名称
func (s *GeminiService) Name() string {
	return "gemini"
}

// Translate 翻译文本，错误按类型包装为 TranslationError
func (s *GeminiService) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	translated, err := s.client.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", s.classify(err)
	}
	return translated, nil
}

// ListModels 返回Gemini模型列表的原始响应
func (s *GeminiService) ListModels(ctx context.Context) ([]byte, error) {
	body, err := s.client.ListModels(ctx)
	if err != nil {
		return nil, s.classify(err)
	}
	return body, nil
}

// SetAPIKey 更新后续请求使用的API密钥
func (s *GeminiService) SetAPIKey(key string) {
	s.client.SetAPIKey(key)
}

// classify 将客户端错误映射为失败类型
func (s *GeminiService) classify(err error) error {
	switch {
	case errors.Is(err, llm.ErrMissingAPIKey):
		return newError(KindConfiguration, s.Name(), err)
	case errors.Is(err, llm.ErrMalformedResponse):
		return newError(KindResponseShape, s.Name(), err)
	default:
		return newError(KindTransport, s.Name(), err)
	}
}
