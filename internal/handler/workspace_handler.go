// Package handler 提供Notion数据库管理相关的HTTP处理器
// 路由与响应格式与原有前端脚本保持兼容：
// 列表接口直接返回数据本身，错误通过detail字段返回
package handler

import (
	"fmt"

	"github.com/Alucardzh/notion-works/internal/middleware"
	"github.com/Alucardzh/notion-works/internal/notion"
	"github.com/Alucardzh/notion-works/internal/response"
	"github.com/Alucardzh/notion-works/internal/service/workspace"
	"github.com/gin-gonic/gin"
)

// WorkspaceHandler 工作空间处理器
// 处理数据库列表、内容查询、属性增删、筛选与批量更新请求
type WorkspaceHandler struct {
	workspaceService workspace.WorkspaceService
}

// NewWorkspaceHandler 创建工作空间处理器实例
func NewWorkspaceHandler(workspaceService workspace.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaceService: workspaceService,
	}
}

// updateTextRequest 批量更新文本请求
type updateTextRequest struct {
	DatabaseID  string `json:"database_id" binding:"required"`  // 目标数据库ID
	TextContent string `json:"text_content" binding:"required"` // 要写入的文本内容
}

// bulkUpdateResult 批量更新响应
type bulkUpdateResult struct {
	Message      string `json:"message"`       // 操作结果描述
	SuccessCount int    `json:"success_count"` // 成功更新的页面数
}

// markdownResult 页面Markdown导出响应
type markdownResult struct {
	PageID   string `json:"page_id"`  // 页面ID
	Markdown string `json:"markdown"` // 渲染后的Markdown文本
}

// logPage 操作日志分页响应
type logPage struct {
	List     interface{} `json:"list"`      // 日志列表
	Total    int64       `json:"total"`     // 总条数
	Page     int         `json:"page"`      // 当前页码
	PageSize int         `json:"page_size"` // 每页条数
}

// ListDatabases 获取所有数据库列表
// GET /databases
func (h *WorkspaceHandler) ListDatabases(c *gin.Context) {
	databases, err := h.workspaceService.ListDatabases(c.Request.Context())
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, databases)
}

// GetDatabaseContent 获取指定数据库的内容
// GET /databases/:id  可选查询参数cache=true使用本地快照
func (h *WorkspaceHandler) GetDatabaseContent(c *gin.Context) {
	databaseID := c.Param("id")
	useCache := c.Query("cache") == "true"

	pages, err := h.workspaceService.GetDatabaseContent(c.Request.Context(), databaseID, useCache)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, nonNilPages(pages))
}

// GetDatabaseSchema 获取数据库的属性模式
// GET /databases/:id/schema
func (h *WorkspaceHandler) GetDatabaseSchema(c *gin.Context) {
	schema, err := h.workspaceService.GetDatabaseSchema(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	if schema == nil {
		schema = map[string]interface{}{}
	}
	response.Data(c, schema)
}

// AddProperty 添加数据库属性
// POST /databases/property
func (h *WorkspaceHandler) AddProperty(c *gin.Context) {
	var req workspace.AddPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	req.RequestID = c.GetString(middleware.RequestIDKey)

	if err := h.workspaceService.AddProperty(c.Request.Context(), &req); err != nil {
		response.AppError(c, err)
		return
	}
	response.Message(c, fmt.Sprintf("成功添加属性：%s", req.PropertyName))
}

// RemoveProperty 删除数据库属性
// DELETE /databases/:id/properties/:name  不可撤销
func (h *WorkspaceHandler) RemoveProperty(c *gin.Context) {
	databaseID := c.Param("id")
	propertyName := c.Param("name")

	if err := h.workspaceService.RemoveProperty(c.Request.Context(), databaseID, propertyName); err != nil {
		response.AppError(c, err)
		return
	}
	response.Message(c, fmt.Sprintf("成功删除属性：%s", propertyName))
}

// FilterDatabase 筛选数据库内容
// POST /databases/filter
func (h *WorkspaceHandler) FilterDatabase(c *gin.Context) {
	var req workspace.FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	pages, err := h.workspaceService.FilterDatabase(c.Request.Context(), &req)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, nonNilPages(pages))
}

// BulkUpdateText 批量更新数据库中的文本内容
// POST /databases/update-text  仅更新文本属性为空的页面
func (h *WorkspaceHandler) BulkUpdateText(c *gin.Context) {
	var req updateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	successCount, err := h.workspaceService.BulkUpdateText(c.Request.Context(), req.DatabaseID, req.TextContent)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, bulkUpdateResult{
		Message:      "更新完成",
		SuccessCount: successCount,
	})
}

// GetPageMarkdown 获取页面内容的Markdown渲染
// GET /pages/:id/markdown
func (h *WorkspaceHandler) GetPageMarkdown(c *gin.Context) {
	pageID := c.Param("id")

	markdown, err := h.workspaceService.ExportPageMarkdown(c.Request.Context(), pageID)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, markdownResult{
		PageID:   pageID,
		Markdown: markdown,
	})
}

// ListOperationLogs 分页查询操作审计日志
// GET /logs
func (h *WorkspaceHandler) ListOperationLogs(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 20)

	logs, total, err := h.workspaceService.ListOperationLogs(page, pageSize)
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, logPage{
		List:     logs,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// intQuery 读取整型查询参数，解析失败时返回默认值
func intQuery(c *gin.Context, key string, fallback int) int {
	value := 0
	if _, err := fmt.Sscanf(c.Query(key), "%d", &value); err != nil || value < 1 {
		return fallback
	}
	return value
}

// nonNilPages 保证页面列表序列化为JSON数组而非null
func nonNilPages(pages []notion.Page) []notion.Page {
	if pages == nil {
		return []notion.Page{}
	}
	return pages
}
