// Package workspace 提供Notion工作空间管理的业务逻辑
// 包含数据库列表、内容查询、属性增删、条件筛选与批量文本更新
// 所有变更操作都会写入操作审计日志并使对应数据库的内容快照失效
package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Alucardzh/notion-works/internal/database"
	apperrors "github.com/Alucardzh/notion-works/internal/errors"
	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/Alucardzh/notion-works/internal/notion"
	"gorm.io/gorm"
)

// 约定的页面属性名，与工作空间中的数据库结构保持一致
const (
	// TitleProperty 页面标题所在的属性名
	TitleProperty = "文档名称"
	// TextProperty 批量文本更新的目标属性名
	TextProperty = "文本"
)

// NotionAPI 工作空间服务依赖的Notion客户端接口
type NotionAPI interface {
	ListDatabases(ctx context.Context) ([]notion.Database, error)
	ListPages(ctx context.Context) ([]notion.Page, error)
	QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error)
	QueryDatabaseWithFilter(ctx context.Context, databaseID, filterProperty string, filterValue interface{}, filterType string) ([]notion.Page, error)
	GetDatabaseSchema(ctx context.Context, databaseID string) (map[string]interface{}, error)
	UpdateDatabaseProperties(ctx context.Context, databaseID string, properties map[string]interface{}) error
	UpdatePageText(ctx context.Context, pageID, textProperty, textContent string) error
	GetPageBlocks(ctx context.Context, pageID string) ([]notion.Block, error)
}

// WorkspaceService 工作空间服务接口
type WorkspaceService interface {
	// ListDatabases 列出工作空间中的所有数据库
	ListDatabases(ctx context.Context) ([]DatabaseSummary, error)

	// GetDatabaseContent 获取指定数据库的全部页面
	// useCache为true且存在快照时直接返回快照内容
	GetDatabaseContent(ctx context.Context, databaseID string, useCache bool) ([]notion.Page, error)

	// GetDatabaseSchema 获取数据库的属性模式
	GetDatabaseSchema(ctx context.Context, databaseID string) (map[string]interface{}, error)

	// AddProperty 向数据库添加新属性，属性已存在时失败
	AddProperty(ctx context.Context, req *AddPropertyRequest) error

	// RemoveProperty 从数据库删除属性，属性不存在时失败，操作不可撤销
	RemoveProperty(ctx context.Context, databaseID, propertyName string) error

	// FilterDatabase 按属性值筛选数据库内容，结果可能为空
	FilterDatabase(ctx context.Context, req *FilterRequest) ([]notion.Page, error)

	// BulkUpdateText 批量更新文本属性为空的页面，返回成功更新的页面数
	BulkUpdateText(ctx context.Context, databaseID, textContent string) (int, error)

	// ExportPageMarkdown 将页面内容渲染为Markdown文本
	ExportPageMarkdown(ctx context.Context, pageID string) (string, error)

	// ListOperationLogs 分页查询操作审计日志
	ListOperationLogs(page, pageSize int) ([]database.OperationLog, int64, error)
}

// DatabaseSummary 数据库摘要信息
type DatabaseSummary struct {
	ID    string `json:"id"`    // 数据库ID
	Title string `json:"title"` // 数据库标题
}

// AddPropertyRequest 添加属性请求
type AddPropertyRequest struct {
	DatabaseID   string      `json:"database_id" binding:"required"`   // 目标数据库ID
	PropertyName string      `json:"property_name" binding:"required"` // 属性名称
	PropertyType string      `json:"property_type" binding:"required"` // 属性类型 (rich_text, number, checkbox, select, date 等)
	DefaultValue interface{} `json:"default_value"`                    // 默认值，可选
	RequestID    string      `json:"-"`                                // 触发请求ID，写入审计日志
}

// FilterRequest 筛选请求
type FilterRequest struct {
	DatabaseID     string      `json:"database_id" binding:"required"`     // 目标数据库ID
	FilterProperty string      `json:"filter_property" binding:"required"` // 筛选属性名称
	FilterValue    interface{} `json:"filter_value" binding:"required"`    // 筛选值
	FilterType     string      `json:"filter_type"`                        // 筛选类型，默认equals
}

// workspaceService 工作空间服务实现
type workspaceService struct {
	api NotionAPI
	db  *gorm.DB
}

// NewWorkspaceService 创建工作空间服务实例
// 参数:
//   api - Notion客户端
//   db - 本地数据库连接，用于审计日志与内容快照
// 返回:
//   WorkspaceService - 工作空间服务接口实例
func NewWorkspaceService(api NotionAPI, db *gorm.DB) WorkspaceService {
	return &workspaceService{
		api: api,
		db:  db,
	}
}

// ListDatabases 列出工作空间中的所有数据库
func (s *workspaceService) ListDatabases(ctx context.Context) ([]DatabaseSummary, error) {
	databases, err := s.api.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]DatabaseSummary, 0, len(databases))
	for _, db := range databases {
		summaries = append(summaries, DatabaseSummary{
			ID:    db.ID(),
			Title: db.Title(),
		})
	}
	return summaries, nil
}

// GetDatabaseContent 获取指定数据库的全部页面
func (s *workspaceService) GetDatabaseContent(ctx context.Context, databaseID string, useCache bool) ([]notion.Page, error) {
	if databaseID == "" {
		return nil, apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("数据库ID不能为空")
	}

	if useCache {
		if pages, ok := s.loadSnapshots(databaseID); ok {
			logger.Debugf("命中数据库快照: %s, 页面数: %d", databaseID, len(pages))
			return pages, nil
		}
	}

	pages, err := s.api.QueryDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	s.saveSnapshots(databaseID, pages)
	return pages, nil
}

// GetDatabaseSchema 获取数据库的属性模式
func (s *workspaceService) GetDatabaseSchema(ctx context.Context, databaseID string) (map[string]interface{}, error) {
	if databaseID == "" {
		return nil, apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("数据库ID不能为空")
	}
	return s.api.GetDatabaseSchema(ctx, databaseID)
}

// AddProperty 向数据库添加新属性
func (s *workspaceService) AddProperty(ctx context.Context, req *AddPropertyRequest) error {
	if req.DatabaseID == "" || req.PropertyName == "" {
		return apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("数据库ID和属性名称不能为空")
	}

	start := time.Now()
	err := s.addProperty(ctx, req)
	s.recordOperation(&database.OperationLog{
		RequestID:    req.RequestID,
		Action:       database.ActionAddProperty,
		DatabaseID:   req.DatabaseID,
		PropertyName: req.PropertyName,
		Duration:     time.Since(start).Milliseconds(),
	}, err)
	if err != nil {
		return err
	}

	// 变更后快照失效，下次读取回源
	s.invalidateSnapshots(req.DatabaseID)
	return nil
}

// addProperty 校验属性模式并执行PATCH
func (s *workspaceService) addProperty(ctx context.Context, req *AddPropertyRequest) error {
	schema, err := s.api.GetDatabaseSchema(ctx, req.DatabaseID)
	if err != nil {
		return err
	}

	if _, exists := schema[req.PropertyName]; exists {
		return apperrors.NewByCode(apperrors.ErrPropertyExists).
			WithDetails(fmt.Sprintf("属性 '%s' 已存在", req.PropertyName))
	}

	properties := map[string]interface{}{
		req.PropertyName: buildPropertyConfig(req.PropertyType, req.DefaultValue),
	}
	return s.api.UpdateDatabaseProperties(ctx, req.DatabaseID, properties)
}

// buildPropertyConfig 构建属性定义，带默认值时写入初始内容
func buildPropertyConfig(propertyType string, defaultValue interface{}) map[string]interface{} {
	propertyConfig := map[string]interface{}{"type": propertyType}

	if defaultValue == nil {
		return propertyConfig
	}

	switch propertyType {
	case "rich_text":
		propertyConfig["rich_text"] = []map[string]interface{}{
			{"text": map[string]interface{}{"content": fmt.Sprintf("%v", defaultValue)}},
		}
	case "number":
		if number, ok := toFloat(defaultValue); ok {
			propertyConfig["number"] = number
		}
	case "checkbox":
		if checked, ok := defaultValue.(bool); ok {
			propertyConfig["checkbox"] = checked
		}
	}
	return propertyConfig
}

// toFloat 将任意JSON数值转换为float64
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// RemoveProperty 从数据库删除属性
func (s *workspaceService) RemoveProperty(ctx context.Context, databaseID, propertyName string) error {
	if databaseID == "" || propertyName == "" {
		return apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("数据库ID和属性名称不能为空")
	}

	start := time.Now()
	err := s.removeProperty(ctx, databaseID, propertyName)
	s.recordOperation(&database.OperationLog{
		Action:       database.ActionRemoveProperty,
		DatabaseID:   databaseID,
		PropertyName: propertyName,
		Duration:     time.Since(start).Milliseconds(),
	}, err)
	if err != nil {
		return err
	}

	s.invalidateSnapshots(databaseID)
	return nil
}

// removeProperty 校验属性存在后提交删除
func (s *workspaceService) removeProperty(ctx context.Context, databaseID, propertyName string) error {
	schema, err := s.api.GetDatabaseSchema(ctx, databaseID)
	if err != nil {
		return err
	}

	if _, exists := schema[propertyName]; !exists {
		return apperrors.NewByCode(apperrors.ErrPropertyNotFound).
			WithDetails(fmt.Sprintf("属性 '%s' 不存在", propertyName))
	}

	// 属性置空即删除
	return s.api.UpdateDatabaseProperties(ctx, databaseID, map[string]interface{}{
		propertyName: nil,
	})
}

// FilterDatabase 按属性值筛选数据库内容
func (s *workspaceService) FilterDatabase(ctx context.Context, req *FilterRequest) ([]notion.Page, error) {
	if req.DatabaseID == "" || req.FilterProperty == "" || req.FilterValue == nil {
		return nil, apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("筛选属性和筛选值不能为空")
	}

	filterType := req.FilterType
	if filterType == "" {
		filterType = "equals"
	}

	return s.api.QueryDatabaseWithFilter(ctx, req.DatabaseID, req.FilterProperty, req.FilterValue, filterType)
}

// BulkUpdateText 批量更新文本属性为空的页面
// 已有文本内容的页面保持不变，单页失败不中断整体流程
func (s *workspaceService) BulkUpdateText(ctx context.Context, databaseID, textContent string) (int, error) {
	if databaseID == "" || textContent == "" {
		return 0, apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("数据库ID和文本内容不能为空")
	}

	start := time.Now()
	successCount, err := s.bulkUpdateText(ctx, databaseID, textContent)
	s.recordOperation(&database.OperationLog{
		Action:       database.ActionBulkUpdateText,
		DatabaseID:   databaseID,
		SuccessCount: successCount,
		Duration:     time.Since(start).Milliseconds(),
	}, err)
	if err != nil {
		return successCount, err
	}

	s.invalidateSnapshots(databaseID)
	return successCount, nil
}

// bulkUpdateText 拉取内容并逐页更新空文本页面
func (s *workspaceService) bulkUpdateText(ctx context.Context, databaseID, textContent string) (int, error) {
	pages, err := s.api.QueryDatabase(ctx, databaseID)
	if err != nil {
		return 0, err
	}

	successCount := 0
	for _, page := range pages {
		if !page.RichTextEmpty(TextProperty) {
			continue
		}
		if err := s.api.UpdatePageText(ctx, page.ID(), TextProperty, textContent); err != nil {
			logger.Warnf("更新页面文本失败: %s (%s), 错误: %v",
				page.Title(TitleProperty), page.ID(), err)
			continue
		}
		successCount++
	}
	return successCount, nil
}

// ExportPageMarkdown 将页面内容渲染为Markdown文本
func (s *workspaceService) ExportPageMarkdown(ctx context.Context, pageID string) (string, error) {
	if pageID == "" {
		return "", apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("页面ID不能为空")
	}

	blocks, err := s.api.GetPageBlocks(ctx, pageID)
	if err != nil {
		return "", err
	}

	return RenderMarkdown(blocks), nil
}

// ListOperationLogs 分页查询操作审计日志
func (s *workspaceService) ListOperationLogs(page, pageSize int) ([]database.OperationLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := s.db.Model(&database.OperationLog{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.WrapByCode(apperrors.ErrDatabaseQuery, err)
	}

	var logs []database.OperationLog
	err := s.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, 0, apperrors.WrapByCode(apperrors.ErrDatabaseQuery, err)
	}

	return logs, total, nil
}

// recordOperation 写入操作审计日志
// 日志写入失败只记录告警，不影响主流程
func (s *workspaceService) recordOperation(entry *database.OperationLog, opErr error) {
	if opErr != nil {
		entry.Status = database.StatusFailed
		entry.Detail = opErr.Error()
	} else {
		entry.Status = database.StatusSuccess
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Warnf("写入操作日志失败: %v", err)
	}
}

// saveSnapshots 以整库替换的方式保存页面快照
func (s *workspaceService) saveSnapshots(databaseID string, pages []notion.Page) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("database_id = ?", databaseID).Delete(&database.PageSnapshot{}).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, page := range pages {
			payload, err := json.Marshal(page)
			if err != nil {
				return err
			}
			snapshot := database.PageSnapshot{
				DatabaseID: databaseID,
				PageID:     page.ID(),
				Payload:    string(payload),
				FetchedAt:  now,
			}
			if err := tx.Create(&snapshot).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Warnf("保存数据库快照失败: %s, 错误: %v", databaseID, err)
	}
}

// loadSnapshots 读取数据库快照，无快照时返回false
func (s *workspaceService) loadSnapshots(databaseID string) ([]notion.Page, bool) {
	var snapshots []database.PageSnapshot
	err := s.db.Where("database_id = ?", databaseID).
		Order("id ASC").
		Find(&snapshots).Error
	if err != nil || len(snapshots) == 0 {
		return nil, false
	}

	pages := make([]notion.Page, 0, len(snapshots))
	for _, snapshot := range snapshots {
		var page notion.Page
		if err := json.Unmarshal([]byte(snapshot.Payload), &page); err != nil {
			return nil, false
		}
		pages = append(pages, page)
	}
	return pages, true
}

// invalidateSnapshots 删除数据库的全部快照
// 所有变更操作之后调用，保证读取始终回源
func (s *workspaceService) invalidateSnapshots(databaseID string) {
	if err := s.db.Where("database_id = ?", databaseID).Delete(&database.PageSnapshot{}).Error; err != nil {
		logger.Warnf("清除数据库快照失败: %s, 错误: %v", databaseID, err)
	}
}
