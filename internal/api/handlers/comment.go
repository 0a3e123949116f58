package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/comment"
)

// CommentHandler 留言與回覆
type CommentHandler struct {
	comments *comment.Service
}

func NewCommentHandler(comments *comment.Service) *CommentHandler {
	return &CommentHandler{comments: comments}
}

func (h *CommentHandler) HandleListByRecipe(c *gin.Context) {
	recipeID, err := UintParam(c, "recipeId")
	if err != nil {
		Fail(c, err)
		return
	}
	comments, err := h.comments.ListByRecipe(c.Request.Context(), recipeID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, comments, "")
}

func (h *CommentHandler) HandleAdd(c *gin.Context) {
	var req comment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	created, err := h.comments.Add(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, created, "댓글이 등록되었습니다.")
}

// HandleDelete 只有作者（userId 查詢參數）可以刪除
func (h *CommentHandler) HandleDelete(c *gin.Context) {
	commentID, err := UintParam(c, "commentId")
	if err != nil {
		Fail(c, err)
		return
	}
	userID, err := UintQuery(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.comments.Delete(c.Request.Context(), commentID, userID); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil, "댓글이 삭제되었습니다.")
}

func (h *CommentHandler) HandleListReplies(c *gin.Context) {
	commentID, err := UintParam(c, "commentId")
	if err != nil {
		Fail(c, err)
		return
	}
	replies, err := h.comments.ListReplies(c.Request.Context(), commentID)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, replies, "")
}

func (h *CommentHandler) HandleReply(c *gin.Context) {
	commentID, err := UintParam(c, "commentId")
	if err != nil {
		Fail(c, err)
		return
	}
	var req comment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	reply, err := h.comments.Reply(c.Request.Context(), commentID, req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, reply, "답글이 등록되었습니다.")
}
