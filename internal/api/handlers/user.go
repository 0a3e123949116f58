package handlers

import (
	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/user"
)

// UserHandler 使用者管理
type UserHandler struct {
	users *user.Service
}

func NewUserHandler(users *user.Service) *UserHandler {
	return &UserHandler{users: users}
}

// HandleSignup 註冊；/api/users 的 POST 也走這裡
func (h *UserHandler) HandleSignup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	u, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, u, "회원가입이 완료되었습니다.")
}

func (h *UserHandler) HandleList(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, users, "")
}

func (h *UserHandler) HandleGet(c *gin.Context) {
	id, err := UintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, u, "")
}

func (h *UserHandler) HandleUpdate(c *gin.Context) {
	id, err := UintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	var req user.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, u, "")
}

func (h *UserHandler) HandleDelete(c *gin.Context) {
	id, err := UintParam(c, "id")
	if err != nil {
		Fail(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}
	OK(c, nil, "")
}
