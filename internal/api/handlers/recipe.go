package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/guide"
	"recipe-assistant/internal/core/recipe"
	"recipe-assistant/internal/pkg/common"
)

// FromGuideRequest 將 AI 回答解析後存為食譜
type FromGuideRequest struct {
	Text       string `json:"text"`
	Query      string `json:"query"`
	Difficulty string `json:"difficulty"`
	AuthorID   *uint  `json:"authorId"`
}

// RecipeHandler 食譜 CRUD
type RecipeHandler struct {
	recipes *recipe.Service
	parser  *guide.Parser
}

func NewRecipeHandler(recipes *recipe.Service, parser *guide.Parser) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, parser: parser}
}

func (h *RecipeHandler) HandleList(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, recipes, "")
}

func (h *RecipeHandler) HandleGet(c *gin.Context) {
	id, err := UintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	r, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, r, "")
}

func (h *RecipeHandler) HandleCreate(c *gin.Context) {
	var req recipe.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	r, err := h.recipes.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, r, "레시피가 등록되었습니다.")
}

func (h *RecipeHandler) HandleUpdate(c *gin.Context) {
	id, err := UintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	var req recipe.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	r, err := h.recipes.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, r, "레시피가 수정되었습니다.")
}

func (h *RecipeHandler) HandleDelete(c *gin.Context) {
	id, err := UintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil, "레시피가 삭제되었습니다.")
}

// HandleSearch 標題關鍵字搜尋
func (h *RecipeHandler) HandleSearch(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		Fail(c, common.WithMessage(common.ErrInvalidRequest, "keyword 파라미터가 필요합니다."))
		return
	}
	recipes, err := h.recipes.Search(c.Request.Context(), keyword)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, recipes, "")
}

func (h *RecipeHandler) HandleFilterByDifficulty(c *gin.Context) {
	recipes, err := h.recipes.FilterByDifficulty(c.Request.Context(), c.Query("difficulty"))
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, recipes, "")
}

func (h *RecipeHandler) HandleFilterByCookingTime(c *gin.Context) {
	raw := c.Query("minutes")
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		Fail(c, common.WithMessage(common.ErrInvalidRequest, "잘못된 minutes 값입니다: "+raw))
		return
	}
	recipes, err := h.recipes.FilterByPreparationTime(c.Request.Context(), minutes)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, recipes, "")
}

// HandleRecommend 依條件推薦食譜
func (h *RecipeHandler) HandleRecommend(c *gin.Context) {
	var req recipe.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	recipes, err := h.recipes.Recommend(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, recipes, "")
}

// HandleFromGuide 解析 AI 回答並存為食譜
func (h *RecipeHandler) HandleFromGuide(c *gin.Context) {
	var req FromGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	g, err := h.parser.ParseWithQuery(req.Text, req.Query)
	if err != nil {
		Fail(c, err)
		return
	}
	r, err := h.recipes.SaveGuide(c.Request.Context(), g, req.Difficulty, req.AuthorID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, r, "레시피가 등록되었습니다.")
}
