package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"recipe-assistant/internal/core/push"
	"recipe-assistant/internal/pkg/common"
)

const testPushMessage = "테스트 알림입니다."

// PushHandler 推播訂閱與發送
type PushHandler struct {
	push *push.Service
}

func NewPushHandler(pushService *push.Service) *PushHandler {
	return &PushHandler{push: pushService}
}

func (h *PushHandler) HandleSubscribe(c *gin.Context) {
	userID, err := UintParam(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	var req push.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err)
		return
	}
	sub, err := h.push.Subscribe(c.Request.Context(), userID, req)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, sub, "구독이 등록되었습니다.")
}

func (h *PushHandler) HandleTest(c *gin.Context) {
	userID, err := UintParam(c, "userId")
	if err != nil {
		Fail(c, err)
		return
	}
	sent, err := h.push.SendToUser(c.Request.Context(), userID, testPushMessage)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"sent": sent}, "")
}

// HandleSendToAll 請求體可為 {"message": "..."} 或純文字
func (h *PushHandler) HandleSendToAll(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		BadRequest(c, err)
		return
	}

	message := strings.TrimSpace(string(raw))
	var body struct {
		Message string `json:"message"`
	}
	if err := common.ParseJSONBytes(raw, &body); err == nil {
		message = strings.TrimSpace(body.Message)
	}
	if message == "" {
		Fail(c, common.WithMessage(common.ErrInvalidInput, "메시지가 비어있습니다."))
		return
	}

	sent, err := h.push.SendToAll(c.Request.Context(), message)
	if err != nil {
		Fail(c, err)
		return
	}
	OK(c, gin.H{"sent": sent}, "")
}
