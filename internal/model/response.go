package model

import "time"

// Status 翻译状态
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// TranslationResponse 标题翻译结果
// TranslatedTitle 仅在 COMPLETED 时非空，Error 仅在 FAILED 时非空
type TranslationResponse struct {
	// DocumentID 文档ID
	DocumentID string `json:"documentId"`

	// OriginalTitle 原始标题
	OriginalTitle string `json:"originalTitle"`

	// TranslatedTitle 翻译后的标题（失败时为null）
	TranslatedTitle *string `json:"translatedTitle"`

	// SourceLanguage 源语言
	SourceLanguage string `json:"sourceLanguage"`

	// TargetLanguage 目标语言
	TargetLanguage string `json:"targetLanguage"`

	// Status 处理状态
	Status Status `json:"status"`

	// Error 错误信息（成功时为null）
	Error *string `json:"error"`

	// Timestamp 生成时间（RFC3339，UTC）
	Timestamp string `json:"timestamp"`
}

// Completed 创建成功响应
func Completed(req TranslationRequest, translated string) TranslationResponse {
	resp := newResponse(req, StatusCompleted)
	resp.TranslatedTitle = &translated
	return resp
}

// Failed 创建失败响应
func Failed(req TranslationRequest, err error) TranslationResponse {
	msg := "unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	resp := newResponse(req, StatusFailed)
	resp.Error = &msg
	return resp
}

func newResponse(req TranslationRequest, status Status) TranslationResponse {
	return TranslationResponse{
		DocumentID:     req.DocumentID,
		OriginalTitle:  req.Title,
		SourceLanguage: req.SourceLanguage,
		TargetLanguage: req.TargetLanguage,
		Status:         status,
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
	}
}

// IsSuccessful 是否翻译成功
func (r TranslationResponse) IsSuccessful() bool {
	return r.Status == StatusCompleted
}
