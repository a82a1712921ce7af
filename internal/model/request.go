package model

// 默认语言
const (
	DefaultSourceLanguage = "en"
	DefaultTargetLanguage = "es"
)

// TranslationRequest 标题翻译请求
// 由HTTP接口、Kafka消息或Lambda事件构造，构造后不再修改
type TranslationRequest struct {
	// DocumentID 文档ID
	DocumentID string `json:"documentId"`

	// Title 待翻译的标题
	Title string `json:"title"`

	// SourceLanguage 源语言，默认 en
	SourceLanguage string `json:"sourceLanguage,omitempty"`

	// TargetLanguage 目标语言，默认 es
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

// NewTranslationRequest 创建翻译请求（空语言使用默认值）
func NewTranslationRequest(documentID, title, sourceLanguage, targetLanguage string) TranslationRequest {
	return TranslationRequest{
		DocumentID:     documentID,
		Title:          title,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
	}.WithDefaults()
}

// WithDefaults 返回补全默认语言后的副本
func (r TranslationRequest) WithDefaults() TranslationRequest {
	if r.SourceLanguage == "" {
		r.SourceLanguage = DefaultSourceLanguage
	}
	if r.TargetLanguage == "" {
		r.TargetLanguage = DefaultTargetLanguage
	}
	return r
}
