package channel

import (
	"encoding/json"
	"strings"

	"github.com/yoyo3287258/title-translator/internal/model"
)

// JSONParser 结构化JSON请求解析器
type JSONParser struct{}

// Name 返回解析器名称
func (p *JSONParser) Name() string {
	return "json"
}

// Parse 解析结构化请求
func (p *JSONParser) Parse(rawData []byte) (model.TranslationRequest, error) {
	var req model.TranslationRequest
	if err := json.Unmarshal(rawData, &req); err != nil {
		return model.TranslationRequest{}, &FormatError{Parser: p.Name(), Reason: "解析JSON请求失败", Err: err}
	}

	if strings.TrimSpace(req.DocumentID) == "" {
		return model.TranslationRequest{}, &FormatError{Parser: p.Name(), Reason: "documentId不能为空"}
	}
	if strings.TrimSpace(req.Title) == "" {
		return model.TranslationRequest{}, &FormatError{Parser: p.Name(), Reason: "title不能为空"}
	}

	return req.WithDefaults(), nil
}
