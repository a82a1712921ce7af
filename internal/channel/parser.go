package channel

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yoyo3287258/title-translator/internal/model"
)

// Parser 消息解析器接口
type Parser interface {
	// Name 返回解析器名称
	Name() string

	// Parse 解析原始数据为翻译请求（已补全默认语言）
	Parse(rawData []byte) (model.TranslationRequest, error)
}

// FormatError 消息格式错误
type FormatError struct {
	Parser string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("消息格式错误(%s): %s: %v", e.Parser, e.Reason, e.Err)
	}
	return fmt.Sprintf("消息格式错误(%s): %s", e.Parser, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var (
	jsonParser = &JSONParser{}
	rawParser  = &RawParser{}
)

// Decode 自动识别消息格式并解析
// JSON对象按结构化请求解析；JSON字符串先去引号再按 "id:title" 解析；其余按原始字符串解析
func Decode(payload []byte) (model.TranslationRequest, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return model.TranslationRequest{}, &FormatError{Parser: rawParser.Name(), Reason: "空消息"}
	}

	switch trimmed[0] {
	case '{':
		return jsonParser.Parse(trimmed)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return model.TranslationRequest{}, &FormatError{Parser: rawParser.Name(), Reason: "无效的JSON字符串", Err: err}
		}
		return rawParser.Parse([]byte(s))
	default:
		return rawParser.Parse(trimmed)
	}
}
