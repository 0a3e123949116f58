package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/core/chat"
	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/core/query"
	"recipe-assistant/internal/pkg/common"
)

const userSender = "User"

// AIHandler 以查詢字串呼叫 AI 的端點
type AIHandler struct {
	chat    *chat.Service
	parser  *guide.Parser
	queries *query.History
}

// NewAIHandler 創建 AI 處理程序
func NewAIHandler(chatService *chat.Service, parser *guide.Parser, queries *query.History) *AIHandler {
	return &AIHandler{chat: chatService, parser: parser, queries: queries}
}

// HandleRecipe AI 食譜推薦；有效的查詢會被記住
func (h *AIHandler) HandleRecipe(c *gin.Context) {
	requestID := RequestID(c)
	q, ok := c.GetQuery("query")
	if !ok {
		Fail(c, common.WithMessage(common.ErrInvalidRequest, "query 파라미터가 필요합니다."))
		return
	}

	common.LogInfo("收到食譜推薦請求",
		zap.String("request_id", requestID),
		zap.String("query", q),
	)

	if query.IsValid(q) {
		h.queries.Save(q)
	}

	resp := h.chat.Process(c.Request.Context(), userSender, q)
	OK(c, resp, "AI 레시피 추천이 성공적으로 완료되었습니다.")
}

// HandleRecipeSteps 將 AI 回答轉為逐步指南
func (h *AIHandler) HandleRecipeSteps(c *gin.Context) {
	requestID := RequestID(c)
	q, ok := c.GetQuery("query")
	if !ok {
		Fail(c, common.WithMessage(common.ErrInvalidRequest, "query 파라미터가 필요합니다."))
		return
	}

	effective := h.queries.Correct(q)
	if effective != strings.TrimSpace(q) {
		common.LogWarn("查詢已校正",
			zap.String("request_id", requestID),
			zap.String("original", q),
			zap.String("effective", effective),
		)
	}

	resp := h.chat.Process(c.Request.Context(), userSender, effective)
	if resp.Failed() {
		Fail(c, common.WithMessage(common.ErrAIServiceError, "AI 응답을 생성하지 못했습니다."))
		return
	}

	g, err := h.parser.Parse(resp.Answer)
	if err != nil {
		Fail(c, err)
		return
	}
	g.ExecutionTime = resp.ExecutionTime
	g.OriginalResponse = resp.Answer
	h.parser.Annotate(effective, g)
	chat.AppendDietaryStep(g, resp.ConversationContext)

	common.LogInfo("食譜指南生成完成",
		zap.String("request_id", requestID),
		zap.String("title", g.Title),
		zap.Int("steps", len(g.Steps)),
		zap.Float64("execution_time", g.ExecutionTime),
	)
	OK(c, g, "레시피 가이드가 성공적으로 생성되었습니다.")
}

// HandleIngredientSubstitute 食材替代建議
func (h *AIHandler) HandleIngredientSubstitute(c *gin.Context) {
	ingredient := strings.TrimSpace(c.Query("ingredient"))
	if ingredient == "" {
		Fail(c, common.WithMessage(common.ErrInvalidRequest, "ingredient 파라미터가 필요합니다."))
		return
	}

	common.LogInfo("收到食材替代請求",
		zap.String("request_id", RequestID(c)),
		zap.String("ingredient", ingredient),
	)

	resp := h.chat.Process(c.Request.Context(), userSender, ingredient+" 대신 사용할 수 있는 재료는?")
	OK(c, resp, "재료 대체 추천이 성공적으로 완료되었습니다.")
}
