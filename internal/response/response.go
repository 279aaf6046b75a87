// Package response 提供统一的HTTP响应写入辅助函数
// 成功响应直接返回业务数据本身，错误响应使用detail字段描述原因，
// 与原有前端脚本读取的响应格式保持兼容
package response

import (
	"net/http"

	apperrors "github.com/Alucardzh/notion-works/internal/errors"
	"github.com/gin-gonic/gin"
)

// ErrorBody 错误响应体
type ErrorBody struct {
	// 面向用户的错误描述
	Detail string `json:"detail"`
	// 应用错误码，0表示未分类错误
	Code int `json:"code,omitempty"`
}

// MessageBody 操作确认响应体
type MessageBody struct {
	// 操作结果描述
	Message string `json:"message"`
}

// Data 成功响应，直接写出业务数据
func Data(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Message 操作确认响应
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error 错误响应
func Error(c *gin.Context, status int, detail string) {
	c.JSON(status, ErrorBody{Detail: detail})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, detail string) {
	Error(c, http.StatusBadRequest, detail)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, detail string) {
	Error(c, http.StatusInternalServerError, detail)
}

// AppError 根据应用错误写出响应
// 本地校验错误映射为400，Notion侧错误映射为502或相应状态码，
// 其余错误映射为500
func AppError(c *gin.Context, err error) {
	appErr, ok := apperrors.GetAppError(err)
	if !ok {
		Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Code {
	case apperrors.ErrInvalidParams,
		apperrors.ErrPropertyExists,
		apperrors.ErrPropertyNotFound,
		apperrors.ErrPropertyAddFailed,
		apperrors.ErrPropertyRemoveFailed:
		status = http.StatusBadRequest
	case apperrors.ErrNotFound, apperrors.ErrNotionObjectMissing:
		status = http.StatusNotFound
	case apperrors.ErrNotionUnauthorized, apperrors.ErrNotionTokenMissing:
		status = http.StatusUnauthorized
	case apperrors.ErrNotionRateLimited:
		status = http.StatusTooManyRequests
	case apperrors.ErrNotionRequest, apperrors.ErrNotionDecode:
		status = http.StatusBadGateway
	case apperrors.ErrServiceUnavailable:
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, ErrorBody{Detail: appErr.Detail(), Code: int(appErr.Code)})
}
