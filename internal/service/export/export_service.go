// Package export 提供数据库内容的Markdown导出与备份
// 每个页面渲染为一个Markdown文档，可选上传到对象存储
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Alucardzh/notion-works/config"
	apperrors "github.com/Alucardzh/notion-works/internal/errors"
	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/Alucardzh/notion-works/internal/service/workspace"
	"github.com/google/uuid"
)

// ExportService 导出服务接口
type ExportService interface {
	// ExportDatabase 将数据库的全部页面导出为Markdown文档
	// 配置开启上传时，导出文件同步推送到对象存储
	ExportDatabase(ctx context.Context, databaseID string) (*ExportResult, error)
}

// ExportResult 导出结果
type ExportResult struct {
	DatabaseID string   `json:"database_id"` // 导出的数据库ID
	BundleID   string   `json:"bundle_id"`   // 导出批次ID
	PageCount  int      `json:"page_count"`  // 导出的页面数
	Files      []string `json:"files"`       // 本地文件路径列表
	Uploaded   bool     `json:"uploaded"`    // 是否已上传到对象存储
}

// exportService 导出服务实现
type exportService struct {
	api      workspace.NotionAPI
	cfg      config.ExportConfig
	uploader Uploader
}

// NewExportService 创建导出服务实例
// uploader为nil时仅导出到本地目录
func NewExportService(api workspace.NotionAPI, cfg config.ExportConfig, uploader Uploader) ExportService {
	return &exportService{
		api:      api,
		cfg:      cfg,
		uploader: uploader,
	}
}

// ExportDatabase 将数据库的全部页面导出为Markdown文档
func (s *exportService) ExportDatabase(ctx context.Context, databaseID string) (*ExportResult, error) {
	if databaseID == "" {
		return nil, apperrors.NewByCode(apperrors.ErrInvalidParams).WithDetails("数据库ID不能为空")
	}

	pages, err := s.api.QueryDatabase(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	bundleID := uuid.NewString()
	outputDir := filepath.Join(s.cfg.OutputDir, bundleID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, apperrors.WrapByCode(apperrors.ErrExportRender, err)
	}

	result := &ExportResult{
		DatabaseID: databaseID,
		BundleID:   bundleID,
	}

	for index, page := range pages {
		blocks, err := s.api.GetPageBlocks(ctx, page.ID())
		if err != nil {
			return nil, err
		}

		markdown := workspace.RenderMarkdown(blocks)
		title := page.Title(workspace.TitleProperty)
		filename := fmt.Sprintf("%03d-%s.md", index+1, sanitizeFilename(title))
		path := filepath.Join(outputDir, filename)

		if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
			return nil, apperrors.WrapByCode(apperrors.ErrExportRender, err)
		}
		result.Files = append(result.Files, path)
		result.PageCount++

		if s.cfg.Upload && s.uploader != nil {
			objectKey := fmt.Sprintf("%s/%s/%s", s.cfg.OSS.Prefix, bundleID, filename)
			if err := s.uploader.Upload(objectKey, strings.NewReader(markdown), "text/markdown"); err != nil {
				return nil, apperrors.WrapByCode(apperrors.ErrExportUpload, err)
			}
		}

		logger.Infof("导出页面 [%d/%d]: %s", index+1, len(pages), title)
	}

	result.Uploaded = s.cfg.Upload && s.uploader != nil && result.PageCount > 0
	return result, nil
}

// sanitizeFilename 清理标题中不适合作为文件名的字符
func sanitizeFilename(title string) string {
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_",
		"?", "_", "\"", "_", "<", "_", ">", "_", "|", "_",
	)
	cleaned := strings.TrimSpace(replacer.Replace(title))
	if cleaned == "" {
		cleaned = "untitled"
	}
	return cleaned
}
