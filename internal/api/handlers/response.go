package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-assistant/internal/pkg/common"
)

// RequestID 取得請求 ID，沒有時產生一個並寫回標頭
func RequestID(c *gin.Context) string {
	if id := requestid.Get(c); id != "" {
		return id
	}
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	id := common.GenerateUUID()
	c.Header("X-Request-ID", id)
	return id
}

// OK 以統一格式回傳成功結果
func OK(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, common.Success(data, message))
}

// Fail 依錯誤類型回傳錯誤；非預定義錯誤一律隱藏細節
func Fail(c *gin.Context, err error) {
	var ce *common.CustomError
	if !errors.As(err, &ce) {
		common.LogError("未預期的錯誤",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", RequestID(c)),
		)
		err = common.ErrInternalError
	}
	_ = c.Error(err)
	resp := common.FailureFromError(err)
	c.AbortWithStatusJSON(resp.StatusCode, resp)
}

// BadRequest 請求格式錯誤
func BadRequest(c *gin.Context, err error) {
	Fail(c, common.Wrap(common.ErrInvalidRequest, err))
}

// UintParam 解析路徑中的數字 ID
func UintParam(c *gin.Context, name string) (uint, error) {
	return parseUint(c.Param(name), name)
}

// UintQuery 解析查詢字串中的數字 ID
func UintQuery(c *gin.Context, name string) (uint, error) {
	return parseUint(c.Query(name), name)
}

func parseUint(raw, name string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, common.WithMessage(common.ErrInvalidRequest, "잘못된 "+name+" 값입니다: "+raw)
	}
	return uint(v), nil
}
