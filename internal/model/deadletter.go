package model

import "time"

// DeadLetter 死信队列消息
type DeadLetter struct {
	// OriginalMessage 原始消息：结构化请求，或无法解析时的原始字符串
	OriginalMessage interface{} `json:"originalMessage"`

	// Error 失败描述
	Error DeadLetterError `json:"error"`
}

// DeadLetterError 死信错误描述
type DeadLetterError struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewDeadLetter 创建死信消息
func NewDeadLetter(original interface{}, cause error) DeadLetter {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return DeadLetter{
		OriginalMessage: original,
		Error: DeadLetterError{
			Message:   msg,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		},
	}
}
