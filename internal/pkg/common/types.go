package common

import (
	"net/http"
	"time"
)

// APIResponse 統一 API 響應外層
type APIResponse struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Code       string      `json:"code,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// 預設成功訊息
const DefaultSuccessMessage = "요청이 성공적으로 처리되었습니다."

// Success 建立成功響應
func Success(data interface{}, message string) APIResponse {
	if message == "" {
		message = DefaultSuccessMessage
	}
	return APIResponse{
		Status:     http.StatusText(http.StatusOK),
		StatusCode: http.StatusOK,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now(),
	}
}

// Failure 建立錯誤響應
func Failure(status int, code, message string) APIResponse {
	return APIResponse{
		Status:     http.StatusText(status),
		StatusCode: status,
		Message:    message,
		Code:       code,
		Timestamp:  time.Now(),
	}
}

// FailureFromError 依錯誤類型建立錯誤響應
func FailureFromError(err error) APIResponse {
	return Failure(StatusOf(err), CodeOf(err), err.Error())
}
