package provider

import (
	"context"
	"time"
)

// Message 表示與 AI 模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator 定義回答生成後端介面
type Generator interface {
	// Generate 依提示生成文字回答
	Generate(ctx context.Context, prompt string) (string, error)

	// Name 後端名稱，用於日誌與回應來源
	Name() string
}

// ContextualGenerator 可附帶烹飪情境（JSON）的生成後端
type ContextualGenerator interface {
	Generator
	GenerateWithContext(ctx context.Context, prompt, contextJSON string) (string, error)
}

// Func 將普通函式包裝為 Generator
type Func struct {
	ProviderName string
	Fn           func(ctx context.Context, prompt string) (string, error)
}

// Generate 實作 Generator
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f.Fn(ctx, prompt)
}

// Name 實作 Generator
func (f Func) Name() string {
	return f.ProviderName
}

// WithTimeout 在 timeout > 0 時為 ctx 加上期限
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
