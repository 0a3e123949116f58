package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"recipe-assistant/internal/core/ai"
	"recipe-assistant/internal/core/ai/cache"
	"recipe-assistant/internal/core/ai/openai"
	"recipe-assistant/internal/core/ai/openrouter"
	"recipe-assistant/internal/core/ai/provider"
	"recipe-assistant/internal/core/ai/queue"
	"recipe-assistant/internal/core/ai/rag"
	"recipe-assistant/internal/infrastructure/config"
	"recipe-assistant/internal/pkg/common"
)

// Service 回答生成服務：緩存 -> 隊列 -> 生成後端 -> 緩存
type Service struct {
	generator provider.Generator
	cache     cache.Store
	queue     *queue.Manager
}

// NewGenerator 依 ai.provider 建立生成後端
func NewGenerator(cfg *config.Config) (provider.Generator, error) {
	switch cfg.AI.Provider {
	case "rag":
		return rag.NewRunner(cfg), nil
	case "openrouter":
		return openrouter.NewClient(cfg), nil
	case "openai":
		return openai.NewClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
	}
}

// NewService 創建 AI 服務；store 與 q 可為 nil
func NewService(generator provider.Generator, store cache.Store, q *queue.Manager) *Service {
	return &Service{
		generator: generator,
		cache:     store,
		queue:     q,
	}
}

// Name 目前生成後端名稱
func (s *Service) Name() string {
	return s.generator.Name()
}

// Ask 生成回答；相同提示優先使用緩存
func (s *Service) Ask(ctx context.Context, prompt string) (*ai.Answer, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "질문이 비어있습니다.")
	}

	start := time.Now()
	key := cache.Key(prompt)

	if s.cache != nil {
		val, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			common.LogCacheHit(s.cache.Name())
			return &ai.Answer{
				Content:       val,
				Source:        s.generator.Name(),
				ExecutionTime: time.Since(start).Seconds(),
				CacheHit:      true,
			}, nil
		case errors.Is(err, common.ErrCacheMiss):
			common.LogCacheMiss(s.cache.Name())
		default:
			common.LogWarn("讀取快取失敗", zap.Error(err))
		}
	}

	content, err := s.run(ctx, func(ctx context.Context) (string, error) {
		return s.generator.Generate(ctx, prompt)
	})
	common.LogAICall(s.generator.Name(), time.Since(start), err, requestIDFrom(ctx))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, content); err != nil {
			common.LogWarn("寫入快取失敗", zap.Error(err))
		}
	}

	return &ai.Answer{
		Content:       content,
		Source:        s.generator.Name(),
		ExecutionTime: time.Since(start).Seconds(),
	}, nil
}

// AskWithContext 附帶烹飪情境生成回答，不使用緩存
//
// 後端不支援情境時退回一般生成。
func (s *Service) AskWithContext(ctx context.Context, prompt, contextJSON string) (*ai.Answer, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, common.WithMessage(common.ErrInvalidInput, "질문이 비어있습니다.")
	}

	start := time.Now()
	content, err := s.run(ctx, func(ctx context.Context) (string, error) {
		if cg, ok := s.generator.(provider.ContextualGenerator); ok {
			return cg.GenerateWithContext(ctx, prompt, contextJSON)
		}
		return s.generator.Generate(ctx, prompt)
	})
	common.LogAICall(s.generator.Name(), time.Since(start), err, requestIDFrom(ctx))
	if err != nil {
		return nil, err
	}

	return &ai.Answer{
		Content:       content,
		Source:        s.generator.Name(),
		ExecutionTime: time.Since(start).Seconds(),
	}, nil
}

// QueueStatus 隊列狀態；未使用隊列時為 nil
func (s *Service) QueueStatus() *queue.Status {
	if s.queue == nil {
		return nil
	}
	status := s.queue.GetQueueStatus()
	return &status
}

func (s *Service) run(ctx context.Context, job queue.Job) (string, error) {
	if s.queue == nil {
		return job(ctx)
	}
	return s.queue.Submit(ctx, job)
}

type requestIDKey struct{}

// WithRequestID 將請求 ID 放入 context 供日誌使用
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
