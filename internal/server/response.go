package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/syslens/sysreport/internal/server/middleware"
)

// ErrorResponse 统一的错误响应结构
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Message   string `json:"message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondWithValidationError 返回参数验证错误
func RespondWithValidationError(c *gin.Context, message string, details interface{}) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      "参数验证失败",
		"code":       http.StatusBadRequest,
		"message":    message,
		"details":    details,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondWithError 返回统一格式的错误响应
func RespondWithError(c *gin.Context, statusCode int, err error, message string) {
	errMsg := "未知错误"
	if err != nil {
		errMsg = err.Error()
		_ = c.Error(err)
	}

	c.JSON(statusCode, ErrorResponse{
		Error:     errMsg,
		Code:      statusCode,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}
