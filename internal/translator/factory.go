package translator

import (
	"fmt"

	"github.com/yoyo3287258/title-translator/internal/config"
	"github.com/yoyo3287258/title-translator/internal/llm"
)

// New 根据 cfg.Provider 创建翻译服务
func New(cfg *config.LLMConfig) (Translator, error) {
	switch cfg.Provider {
	case config.ProviderGemini, "":
		return NewGeminiService(llm.NewClient(cfg)), nil
	case config.ProviderGoogle:
		return NewGoogleService(cfg.CredentialsFile, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", cfg.Provider)
	}
}

// KeyRotator 支持运行时更换API密钥的服务提供方实现此接口
type KeyRotator interface {
	SetAPIKey(key string)
}
