package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/yoyo3287258/title-translator/internal/config"
)

var (
	// ErrMissingAPIKey 未配置API密钥
	ErrMissingAPIKey = errors.New("Gemini API密钥未配置，请设置 GEMINI_API_KEY 环境变量")

	// ErrMalformedResponse 响应结构不符合预期
	ErrMalformedResponse = errors.New("Gemini响应结构异常")
)

// maxErrorBody 错误信息中保留的响应体长度
const maxErrorBody = 512

// StatusError 非2xx响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Gemini API返回状态码 %d: %s", e.StatusCode, e.Body)
}

// Client Gemini API客户端
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client

	mu     sync.RWMutex
	apiKey string
}

// NewClient 创建Gemini客户端
func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SetAPIKey 更新API密钥（配置重载时调用）
func (c *Client) SetAPIKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.apiKey = strings.TrimSpace(key)
}

// Model 返回模型名称
func (c *Client) Model() string {
	return c.model
}

func (c *Client) key() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	return c.apiKey, nil
}

// Part 内容片段
type Part struct {
	Text string `json:"text"`
}

// Content 对话内容
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerateContentRequest generateContent 请求体
type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

// GenerateContentResponse generateContent 响应体
// 字段均为指针，用于区分缺失和空值
type GenerateContentResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Text 提取 candidates[0].content.parts[0].text
func (r *GenerateContentResponse) Text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: 缺少candidates（blockReason: %s）", ErrMalformedResponse, r.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: 缺少candidates", ErrMalformedResponse)
	}
	candidate := r.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: candidates[0]缺少content（finishReason: %s）", ErrMalformedResponse, candidate.FinishReason)
	}
	if len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: candidates[0].content缺少parts", ErrMalformedResponse)
	}
	if candidate.Content.Parts[0].Text == nil {
		return "", fmt.Errorf("%w: candidates[0].content.parts[0]缺少text", ErrMalformedResponse)
	}
	return *candidate.Content.Parts[0].Text, nil
}

// GenerateContent 发送单轮提示并返回第一条候选文本
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	apiKey, err := c.key()
	if err != nil {
		return "", err
	}

	req := GenerateContentRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
	}
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("序列化请求失败: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	respBody, err := c.do(ctx, http.MethodPost, url, apiKey, body)
	if err != nil {
		return "", err
	}

	var genResp GenerateContentResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("%w: 解析响应失败: %v, 原始响应: %s", ErrMalformedResponse, err, truncate(respBody))
	}

	return genResp.Text()
}

// ListModels 获取可用模型列表，返回原始响应体
func (c *Client) ListModels(ctx context.Context) ([]byte, error) {
	apiKey, err := c.key()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodGet, c.baseURL+"/v1beta/models", apiKey, nil)
}

// do 执行HTTP请求，非2xx返回 *StatusError
func (c *Client) do(ctx context.Context, method, url, apiKey string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送请求失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(respBody)}
	}

	return respBody, nil
}

func truncate(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody]) + "..."
	}
	return string(b)
}
