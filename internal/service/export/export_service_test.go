package export

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alucardzh/notion-works/config"
	apperrors "github.com/Alucardzh/notion-works/internal/errors"
	"github.com/Alucardzh/notion-works/internal/notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExportAPI 测试用的Notion客户端桩实现，只覆盖导出用到的方法
type fakeExportAPI struct {
	pages  []notion.Page
	blocks []notion.Block
}

func (f *fakeExportAPI) ListDatabases(ctx context.Context) ([]notion.Database, error) {
	return nil, nil
}

func (f *fakeExportAPI) ListPages(ctx context.Context) ([]notion.Page, error) {
	return nil, nil
}

func (f *fakeExportAPI) QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error) {
	return f.pages, nil
}

func (f *fakeExportAPI) QueryDatabaseWithFilter(ctx context.Context, databaseID, filterProperty string, filterValue interface{}, filterType string) ([]notion.Page, error) {
	return f.pages, nil
}

func (f *fakeExportAPI) GetDatabaseSchema(ctx context.Context, databaseID string) (map[string]interface{}, error) {
	return nil, nil
}

func (f *fakeExportAPI) UpdateDatabaseProperties(ctx context.Context, databaseID string, properties map[string]interface{}) error {
	return nil
}

func (f *fakeExportAPI) UpdatePageText(ctx context.Context, pageID, textProperty, textContent string) error {
	return nil
}

func (f *fakeExportAPI) GetPageBlocks(ctx context.Context, pageID string) ([]notion.Block, error) {
	return f.blocks, nil
}

// fakeUploader 记录上传对象键的桩上传器
type fakeUploader struct {
	keys []string
}

func (f *fakeUploader) Upload(objectKey string, reader io.Reader, contentType string) error {
	f.keys = append(f.keys, objectKey)
	return nil
}

func (f *fakeUploader) Provider() string {
	return "fake"
}

func exportPage(id, title string) notion.Page {
	return notion.Page{
		"id": id,
		"properties": map[string]interface{}{
			"文档名称": map[string]interface{}{
				"title": []interface{}{
					map[string]interface{}{"plain_text": title},
				},
			},
		},
	}
}

func TestExportDatabase(t *testing.T) {
	api := &fakeExportAPI{
		pages: []notion.Page{
			exportPage("page-1", "使用说明"),
			exportPage("page-2", "常见问题/答疑"),
		},
		blocks: []notion.Block{
			{
				"type": "paragraph",
				"paragraph": map[string]interface{}{
					"rich_text": []interface{}{
						map[string]interface{}{"plain_text": "正文内容"},
					},
				},
			},
		},
	}

	t.Run("导出到本地目录", func(t *testing.T) {
		outputDir := t.TempDir()
		svc := NewExportService(api, config.ExportConfig{OutputDir: outputDir}, nil)

		result, err := svc.ExportDatabase(context.Background(), "db-1")
		require.NoError(t, err)

		assert.Equal(t, "db-1", result.DatabaseID)
		assert.Equal(t, 2, result.PageCount)
		assert.False(t, result.Uploaded)
		require.Len(t, result.Files, 2)

		// 标题中的斜杠会被替换，避免生成非法文件名
		assert.Equal(t, "001-使用说明.md", filepath.Base(result.Files[0]))
		assert.Equal(t, "002-常见问题_答疑.md", filepath.Base(result.Files[1]))

		content, err := os.ReadFile(result.Files[0])
		require.NoError(t, err)
		assert.Equal(t, "正文内容\n\n", string(content))
	})

	t.Run("开启上传时推送到对象存储", func(t *testing.T) {
		uploader := &fakeUploader{}
		svc := NewExportService(api, config.ExportConfig{
			OutputDir: t.TempDir(),
			Upload:    true,
			OSS:       config.OSSConfig{Prefix: "notion-exports"},
		}, uploader)

		result, err := svc.ExportDatabase(context.Background(), "db-1")
		require.NoError(t, err)

		assert.True(t, result.Uploaded)
		require.Len(t, uploader.keys, 2)
		assert.Equal(t, "notion-exports/"+result.BundleID+"/001-使用说明.md", uploader.keys[0])
	})

	t.Run("数据库ID为空时校验失败", func(t *testing.T) {
		svc := NewExportService(api, config.ExportConfig{OutputDir: t.TempDir()}, nil)
		_, err := svc.ExportDatabase(context.Background(), "")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeFilename("a/b:c"))
	assert.Equal(t, "untitled", sanitizeFilename("   "))
	assert.Equal(t, "正常标题", sanitizeFilename("正常标题"))
}
