// Package errors 定义应用程序统一的错误码与错误类型
// 区分本地校验错误与Notion请求错误，供HTTP层映射状态码
package errors

import (
	"fmt"

	"github.com/Alucardzh/notion-works/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess            ErrorCode = 0    // 成功
	ErrInternalServer     ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams      ErrorCode = 1001 // 参数错误（本地校验失败，未发起网络请求）
	ErrNotFound           ErrorCode = 1004 // 资源未找到
	ErrTooManyRequests    ErrorCode = 1006 // 请求过于频繁
	ErrServiceUnavailable ErrorCode = 1007 // 服务不可用

	// Notion请求相关错误码 (2000-2999)
	ErrNotionRequest       ErrorCode = 2000 // Notion API请求失败
	ErrNotionUnauthorized  ErrorCode = 2001 // 集成令牌无效
	ErrNotionObjectMissing ErrorCode = 2002 // 请求的Notion对象不存在
	ErrNotionRateLimited   ErrorCode = 2003 // Notion限流
	ErrNotionDecode        ErrorCode = 2004 // 响应解析失败
	ErrNotionTokenMissing  ErrorCode = 2005 // 未配置集成令牌

	// 属性与页面操作错误码 (3000-3999)
	ErrPropertyAddFailed    ErrorCode = 3000 // 添加属性失败
	ErrPropertyRemoveFailed ErrorCode = 3001 // 删除属性失败
	ErrPropertyExists       ErrorCode = 3002 // 属性已存在
	ErrPropertyNotFound     ErrorCode = 3003 // 属性不存在
	ErrPageUpdateFailed     ErrorCode = 3004 // 更新页面内容失败

	// 本地数据库相关错误码 (4000-4999)
	ErrDatabaseQuery  ErrorCode = 4001 // 数据库查询错误
	ErrDatabaseInsert ErrorCode = 4002 // 数据库插入错误
	ErrDatabaseDelete ErrorCode = 4004 // 数据库删除错误

	// 导出相关错误码 (5000-5999)
	ErrExportRender ErrorCode = 5000 // 导出内容生成失败
	ErrExportUpload ErrorCode = 5001 // 导出文件上传失败
)

// AppError 应用错误结构体
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// Detail 返回面向用户的错误描述
// 有详细信息时优先返回详细信息（对应后端响应中的detail字段）
func (e *AppError) Detail() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewByCode 根据错误码创建应用错误，消息取自语言包
func NewByCode(code ErrorCode) *AppError {
	return &AppError{
		Code:    code,
		Message: GetErrorMessage(code),
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// WrapByCode 根据错误码包装原始错误，消息取自语言包
func WrapByCode(code ErrorCode, err error) *AppError {
	return Wrap(code, GetErrorMessage(code), err)
}

// GetAppError 从错误中提取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// IsValidation 判断错误是否为本地校验错误
func IsValidation(err error) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == ErrInvalidParams
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Code == code
}

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:            "success",
	ErrInternalServer:     "internal_server_error",
	ErrInvalidParams:      "invalid_params",
	ErrNotFound:           "not_found",
	ErrTooManyRequests:    "too_many_requests",
	ErrServiceUnavailable: "service_unavailable",

	ErrNotionRequest:       "notion_request_failed",
	ErrNotionUnauthorized:  "notion_unauthorized",
	ErrNotionObjectMissing: "notion_object_missing",
	ErrNotionRateLimited:   "notion_rate_limited",
	ErrNotionDecode:        "notion_decode_failed",
	ErrNotionTokenMissing:  "notion_token_missing",

	ErrPropertyAddFailed:    "property_add_failed",
	ErrPropertyRemoveFailed: "property_remove_failed",
	ErrPropertyExists:       "property_exists",
	ErrPropertyNotFound:     "property_not_found",
	ErrPageUpdateFailed:     "page_update_failed",

	ErrDatabaseQuery:  "database_query",
	ErrDatabaseInsert: "database_insert",
	ErrDatabaseDelete: "database_delete",

	ErrExportRender: "export_render_failed",
	ErrExportUpload: "export_upload_failed",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
