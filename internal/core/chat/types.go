package chat

import (
	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/model"
)

// RecipeContext 使用者正在進行的食譜狀態
type RecipeContext struct {
	RecipeTitle string `json:"recipeTitle"`
	CurrentStep int    `json:"currentStep"`
	TotalSteps  int    `json:"totalSteps"`
	RecipeType  string `json:"recipeType,omitempty"`
}

// Response 一般對話回應
type Response struct {
	Answer              string              `json:"answer"`
	Source              string              `json:"source"`
	ExecutionTime       float64             `json:"executionTime"`
	ConversationContext []model.ChatMessage `json:"conversationContext"`
}

// Failed AI 呼叫失敗時回應只帶有錯誤訊息
func (r *Response) Failed() bool {
	return r.Source == errorSource
}

// EnhancedResponse 可能附帶結構化食譜指南的回應
type EnhancedResponse struct {
	Answer              string              `json:"answer"`
	Source              string              `json:"source"`
	ExecutionTime       float64             `json:"executionTime"`
	RecipeGuide         *guide.Guide        `json:"recipeGuide"`
	RecipeDetected      bool                `json:"recipeDetected"`
	ConversationContext []model.ChatMessage `json:"conversationContext"`
}

// Basic 去掉指南欄位
func (r *EnhancedResponse) Basic() *Response {
	return &Response{
		Answer:              r.Answer,
		Source:              r.Source,
		ExecutionTime:       r.ExecutionTime,
		ConversationContext: r.ConversationContext,
	}
}
