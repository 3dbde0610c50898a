package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/infrastructure/cache"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

const cachePrefix = "ai:response"

// Service AI 服務：快取、併發控制與提供者呼叫
type Service struct {
	provider provider.Provider
	cache    cache.Store
	queue    *queue.Manager
	cacheTTL time.Duration
}

// NewService 創建 AI 服務，store 為 nil 時不使用快取
func NewService(p provider.Provider, store cache.Store, q *queue.Manager, cacheTTL time.Duration) *Service {
	return &Service{
		provider: p,
		cache:    store,
		queue:    q,
		cacheTTL: cacheTTL,
	}
}

// Complete 送出 prompt 並回傳模型回覆。相同 prompt 命中快取時不呼叫提供者。
func (s *Service) Complete(ctx context.Context, systemPrompt, prompt string) (string, error) {
	prompt = normalizePrompt(prompt)
	key := cache.HashKey(cachePrefix, s.provider.GetModel(), systemPrompt, prompt)

	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key); err == nil && len(val) > 0 {
			return string(val), nil
		} else if err != nil && !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("AI cache lookup failed", zap.Error(err))
		}
	}

	release, err := s.queue.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	messages := make([]provider.Message, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, provider.Message{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, provider.Message{Role: "user", Content: prompt})

	start := time.Now()
	resp, err := s.provider.Generate(ctx, &provider.Request{
		Messages:    messages,
		Temperature: 0.7,
		JSONMode:    true,
	})
	common.LogAICall(time.Since(start), err, common.RequestIDFromContext(ctx))
	if err != nil {
		return "", common.ErrAIServiceError.Wrap(err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(resp.Content), s.cacheTTL); err != nil {
			common.LogWarn("AI cache store failed", zap.Error(err))
		}
	}

	return resp.Content, nil
}

// QueueStatus AI 併發狀態
func (s *Service) QueueStatus() *queue.Status {
	return s.queue.GetQueueStatus()
}

// normalizePrompt 合併連續空白，確保快取鍵一致
func normalizePrompt(prompt string) string {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}
