package llm

import (
	"context"
	"fmt"
	"strings"
)

// TranslationPrompt 构建标题翻译提示词
// 要求模型只返回译文，不附加任何说明
func TranslationPrompt(text, sourceLanguage, targetLanguage string) string {
	return fmt.Sprintf(
		"Translate the following text from %s to %s. Return ONLY the translated text with no additional comments or formatting:\n\n\"%s\"",
		sourceLanguage, targetLanguage, text)
}

// Translate 使用Gemini翻译文本
func (c *Client) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	content, err := c.GenerateContent(ctx, TranslationPrompt(text, sourceLanguage, targetLanguage))
	if err != nil {
		return "", err
	}

	translated := CleanTranslation(content)
	if translated == "" {
		return "", fmt.Errorf("%w: 译文为空", ErrMalformedResponse)
	}
	return translated, nil
}

// quotePairs 模型可能保留的外层引号
var quotePairs = [][2]rune{
	{'"', '"'},
	{'\'', '\''},
	{'“', '”'},
	{'«', '»'},
	{'„', '“'},
}

// CleanTranslation 去除首尾空白和提示词中带出的一对外层引号
func CleanTranslation(s string) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 {
		return s
	}

	first, last := runes[0], runes[len(runes)-1]
	for _, pair := range quotePairs {
		if first == pair[0] && last == pair[1] {
			inner := runes[1 : len(runes)-1]
			// 内部还有同样的引号时说明不是整体包裹
			if strings.ContainsRune(string(inner), pair[0]) || strings.ContainsRune(string(inner), pair[1]) {
				return s
			}
			return strings.TrimSpace(string(inner))
		}
	}
	return s
}
