package handler

import (
	"github.com/Alucardzh/notion-works/internal/response"
	"github.com/Alucardzh/notion-works/internal/service/export"
	"github.com/gin-gonic/gin"
)

// ExportHandler 导出处理器
// 处理数据库内容的Markdown导出与备份请求
type ExportHandler struct {
	exportService export.ExportService
}

// NewExportHandler 创建导出处理器实例
func NewExportHandler(exportService export.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// ExportDatabase 导出数据库的全部页面为Markdown文档
// POST /databases/export/:id
func (h *ExportHandler) ExportDatabase(c *gin.Context) {
	result, err := h.exportService.ExportDatabase(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err)
		return
	}
	response.Data(c, result)
}
