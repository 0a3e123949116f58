package chat

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipe-assistant/internal/core/ai"
	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/model"
	"recipe-assistant/internal/pkg/common"
)

const (
	aiSender     = "AI"
	systemSender = "SYSTEM"
	errorSource  = "Error"
	errorAnswer  = "오류가 발생했습니다."
)

// Asker 回答生成服務
type Asker interface {
	Ask(ctx context.Context, prompt string) (*ai.Answer, error)
	AskWithContext(ctx context.Context, prompt, contextJSON string) (*ai.Answer, error)
}

// Service 對話協調：保存訊息、呼叫 AI、偵測並解析食譜
type Service struct {
	db          *gorm.DB
	asker       Asker
	parser      *guide.Parser
	historySize int

	mu      sync.Mutex
	history []model.ChatMessage
}

// NewService 創建對話服務
func NewService(db *gorm.DB, asker Asker, parser *guide.Parser, historySize int) *Service {
	if historySize <= 0 {
		historySize = 10
	}
	return &Service{
		db:          db,
		asker:       asker,
		parser:      parser,
		historySize: historySize,
	}
}

// ProcessEnhanced 處理訊息；回答看起來是食譜時附上解析後的指南
//
// AI 失敗不返回錯誤，而是記錄 SYSTEM 訊息並回覆固定的錯誤答案。
func (s *Service) ProcessEnhanced(ctx context.Context, sender, message string) *EnhancedResponse {
	s.addMessage(ctx, sender, message, model.MessageTypeUser)

	answer, err := s.asker.Ask(ctx, message)
	if err != nil {
		common.LogError("AI 處理失敗", zap.Error(err))
		s.addMessage(ctx, systemSender, "AI 처리 중 오류 발생: "+err.Error(), model.MessageTypeSystem)
		return &EnhancedResponse{
			Answer:              errorAnswer,
			Source:              errorSource,
			ConversationContext: s.ConversationHistory(),
		}
	}

	s.addMessage(ctx, aiSender, answer.Content, model.MessageTypeAI)

	var recipeGuide *guide.Guide
	if IsRecipeQuery(message) && ContainsRecipePattern(answer.Content) {
		g, err := s.parser.ParseWithQuery(answer.Content, message)
		if err != nil {
			common.LogWarn("食譜解析失敗", zap.Error(err))
		} else {
			g.ExecutionTime = answer.ExecutionTime
			recipeGuide = g
		}
	}

	return &EnhancedResponse{
		Answer:              answer.Content,
		Source:              answer.Source,
		ExecutionTime:       answer.ExecutionTime,
		RecipeGuide:         recipeGuide,
		RecipeDetected:      recipeGuide != nil,
		ConversationContext: s.ConversationHistory(),
	}
}

// Process 處理訊息，不附指南
func (s *Service) Process(ctx context.Context, sender, message string) *Response {
	return s.ProcessEnhanced(ctx, sender, message).Basic()
}

// ProcessWithContext 以目前烹飪狀態組合提示後詢問
func (s *Service) ProcessWithContext(ctx context.Context, sender, message string, rc RecipeContext) *Response {
	s.addMessage(ctx, sender, message, model.MessageTypeUser)

	contextJSON, err := common.ToJSON(rc)
	if err != nil {
		contextJSON = "{}"
	}

	answer, err := s.asker.AskWithContext(ctx, BuildContextualPrompt(message, rc), contextJSON)
	if err != nil {
		common.LogError("情境 AI 處理失敗", zap.Error(err))
		s.addMessage(ctx, systemSender, "컨텍스트 기반 AI 처리 중 오류 발생: "+err.Error(), model.MessageTypeSystem)
		return &Response{
			Answer:              errorAnswer,
			Source:              errorSource,
			ConversationContext: s.ConversationHistory(),
		}
	}

	s.addMessage(ctx, aiSender, answer.Content, model.MessageTypeAI)

	return &Response{
		Answer:              answer.Content,
		Source:              answer.Source,
		ExecutionTime:       answer.ExecutionTime,
		ConversationContext: s.ConversationHistory(),
	}
}

// ConversationHistory 記憶體中最近的對話副本
func (s *Service) ConversationHistory() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// History 從資料庫讀取最近的訊息，新的在前
func (s *Service) History(ctx context.Context, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 {
		limit = s.historySize
	}
	if s.db == nil {
		recent := s.ConversationHistory()
		messages := make([]model.ChatMessage, 0, limit)
		for i := len(recent) - 1; i >= 0 && len(messages) < limit; i-- {
			messages = append(messages, recent[i])
		}
		return messages, nil
	}
	var messages []model.ChatMessage
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// addMessage 加入記憶體歷史（超過上限時移除最舊的）並持久化
func (s *Service) addMessage(ctx context.Context, sender, text string, typ model.MessageType) {
	msg := model.ChatMessage{
		Sender:      sender,
		Message:     text,
		MessageType: typ,
	}

	if s.db != nil {
		if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
			common.LogWarn("保存對話訊息失敗", zap.Error(err))
		}
	}

	s.mu.Lock()
	s.history = append(s.history, msg)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
	s.mu.Unlock()
}
