package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/guide"
)

// ParseRequest 待解析的 AI 回答
type ParseRequest struct {
	Text  string `json:"text"`
	Query string `json:"query"`
}

// CheckRequest 一致性檢查
type CheckRequest struct {
	Query string `json:"query"`
	Title string `json:"title"`
}

// CheckResponse 沒有警告時 warning 為 null
type CheckResponse struct {
	Warning *string `json:"warning"`
}

// GuideHandler 直接使用解析器與一致性檢查
type GuideHandler struct {
	parser  *guide.Parser
	checker *guide.Checker
	vocab   *guide.Vocabulary
}

func NewGuideHandler(parser *guide.Parser, checker *guide.Checker, vocab *guide.Vocabulary) *GuideHandler {
	return &GuideHandler{parser: parser, checker: checker, vocab: vocab}
}

// HandleParse 解析文字為食譜指南
func (h *GuideHandler) HandleParse(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	g, err := h.parser.ParseWithQuery(req.Text, req.Query)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, g, "")
}

// HandleCheck 比對查詢與標題
func (h *GuideHandler) HandleCheck(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}

	var resp CheckResponse
	if w := h.checker.Check(req.Query, req.Title); w != "" {
		resp.Warning = &w
	}
	OK(c, resp, "")
}

// HandleVocabulary 目前的料理關鍵字
func (h *GuideHandler) HandleVocabulary(c *gin.Context) {
	OK(c, h.vocab.Words(), "")
}
