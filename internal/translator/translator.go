// Package translator 翻译能力接口及各服务提供方实现
package translator

import (
	"context"
	"errors"
	"fmt"
)

// Translator 在两种语言之间翻译一段文本
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// ModelLister 可列出模型的服务提供方实现此接口，原样返回提供方的响应体
type ModelLister interface {
	ListModels(ctx context.Context) ([]byte, error)
}

// Kind 翻译失败类型
type Kind int

const (
	// KindConfiguration 配置错误（如缺少API密钥），不会发出网络请求
	KindConfiguration Kind = iota + 1
	// KindTransport 网络错误或非2xx响应
	KindTransport
	// KindResponseShape 响应结构不符合预期
	KindResponseShape
)

// 用于 errors.Is 匹配失败类型
var (
	ErrConfiguration = errors.New("translation provider misconfigured")
	ErrTransport     = errors.New("translation provider unreachable")
	ErrResponseShape = errors.New("unexpected translation provider response")
)

// String 返回失败类型名称，用于日志
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindResponseShape:
		return "response_shape"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindTransport:
		return ErrTransport
	case KindResponseShape:
		return ErrResponseShape
	default:
		return nil
	}
}

// TranslationError 所有 Translator 失败时返回的错误
type TranslationError struct {
	Kind     Kind
	Provider string
	Err      error
}

// Error 实现 error 接口
func (e *TranslationError) Error() string {
	return fmt.Sprintf("Translation failed: %v", e.Err)
}

// Unwrap 返回底层错误
func (e *TranslationError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is 能匹配失败类型的哨兵错误
func (e *TranslationError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func newError(kind Kind, provider string, err error) *TranslationError {
	return &TranslationError{Kind: kind, Provider: provider, Err: err}
}

// KindOf 返回翻译错误的类型，非翻译错误返回0
func KindOf(err error) Kind {
	var te *TranslationError
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}
