package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/core/query"
	"recipe-assistant/internal/pkg/common"
)

// MessageRequest 對話訊息
type MessageRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message" binding:"required"`
}

// ContextRequest 附帶烹飪狀態的對話訊息
type ContextRequest struct {
	Sender  string             `json:"sender"`
	Message string             `json:"message" binding:"required"`
	Context chat.RecipeContext `json:"context"`
}

// ChatHandler 對話端點
type ChatHandler struct {
	chat    *chat.Service
	queries *query.History
}

func NewChatHandler(chatService *chat.Service, queries *query.History) *ChatHandler {
	return &ChatHandler{chat: chatService, queries: queries}
}

func senderOrDefault(sender string) string {
	if s := strings.TrimSpace(sender); s != "" {
		return s
	}
	return userSender
}

// HandleAsk 詢問 AI；偵測到食譜時記住這次查詢
func (h *ChatHandler) HandleAsk(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	resp := h.chat.ProcessEnhanced(c.Request.Context(), senderOrDefault(req.Sender), req.Message)
	if resp.RecipeDetected {
		common.LogInfo("食譜回應生成完成",
			zap.String("request_id", RequestID(c)),
			zap.String("title", resp.RecipeGuide.Title),
			zap.Int("steps", len(resp.RecipeGuide.Steps)),
		)
		h.queries.Save(req.Message)
	}
	OK(c, resp, "")
}

// HandleAskLegacy 不附指南的舊格式
func (h *ChatHandler) HandleAskLegacy(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	OK(c, h.chat.Process(c.Request.Context(), senderOrDefault(req.Sender), req.Message), "")
}

// HandleAskWithContext 烹飪指南模式下的提問
func (h *ChatHandler) HandleAskWithContext(c *gin.Context) {
	var req ContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	common.LogInfo("收到情境提問",
		zap.String("request_id", RequestID(c)),
		zap.String("recipe", req.Context.RecipeTitle),
		zap.Int("current_step", req.Context.CurrentStep),
		zap.Int("total_steps", req.Context.TotalSteps),
	)

	resp := h.chat.ProcessWithContext(c.Request.Context(), senderOrDefault(req.Sender), req.Message, req.Context)
	OK(c, resp, "")
}

// HandleHistory 最近的對話紀錄
func (h *ChatHandler) HandleHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			Fail(c, common.WithMessage(common.ErrInvalidRequest, "잘못된 limit 값입니다: "+raw))
			return
		}
		limit = n
	}

	messages, err := h.chat.History(c.Request.Context(), limit)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, messages, "")
}
