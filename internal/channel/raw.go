package channel

import (
	"strings"

	"github.com/yoyo3287258/title-translator/internal/model"
)

// RawParser "<documentId>:<title>" 格式的原始字符串解析器
type RawParser struct{}

// Name 返回解析器名称
func (p *RawParser) Name() string {
	return "raw"
}

// Parse 按第一个冒号拆分文档ID和标题，语言使用默认值
func (p *RawParser) Parse(rawData []byte) (model.TranslationRequest, error) {
	documentID, title, found := strings.Cut(string(rawData), ":")
	if !found {
		return model.TranslationRequest{}, &FormatError{Parser: p.Name(), Reason: "缺少 ':' 分隔符"}
	}

	documentID = strings.TrimSpace(documentID)
	title = strings.TrimSpace(title)
	if documentID == "" {
		return model.TranslationRequest{}, &FormatError{Parser: p.Name(), Reason: "documentId不能为空"}
	}
	if title == "" {
		return model.TranslationRequest{}, &FormatError{Parser: p.Name(), Reason: "title不能为空"}
	}

	return model.NewTranslationRequest(documentID, title, "", ""), nil
}
