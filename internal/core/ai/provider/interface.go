package provider

import (
	"context"
	"time"
)

// Message 對話訊息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 送往 AI 提供者的請求
type Request struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	// JSONMode 要求模型只回覆 JSON 物件
	JSONMode bool `json:"-"`
}

// Usage token 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response AI 提供者的回覆
type Response struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Provider 定義 AI 提供者介面
type Provider interface {
	// Generate 生成 AI 回覆
	Generate(ctx context.Context, req *Request) (*Response, error)

	// GetModel 目前使用的模型名稱
	GetModel() string

	// GetTimeout 單次請求的超時時間
	GetTimeout() time.Duration

	// Close 釋放連線
	Close() error
}
