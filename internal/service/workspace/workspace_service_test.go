package workspace

import (
	"context"
	"testing"

	"github.com/Alucardzh/notion-works/internal/database"
	apperrors "github.com/Alucardzh/notion-works/internal/errors"
	"github.com/Alucardzh/notion-works/internal/notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeNotionAPI 测试用的Notion客户端桩实现，记录每种调用次数
type fakeNotionAPI struct {
	databases []notion.Database
	pages     []notion.Page
	schema    map[string]interface{}
	blocks    []notion.Block

	queryCalls  int
	schemaCalls int
	updateCalls int
	pageUpdates []string
	failPageIDs map[string]bool
}

func (f *fakeNotionAPI) ListDatabases(ctx context.Context) ([]notion.Database, error) {
	return f.databases, nil
}

func (f *fakeNotionAPI) ListPages(ctx context.Context) ([]notion.Page, error) {
	return f.pages, nil
}

func (f *fakeNotionAPI) QueryDatabase(ctx context.Context, databaseID string) ([]notion.Page, error) {
	f.queryCalls++
	return f.pages, nil
}

func (f *fakeNotionAPI) QueryDatabaseWithFilter(ctx context.Context, databaseID, filterProperty string, filterValue interface{}, filterType string) ([]notion.Page, error) {
	f.queryCalls++
	return f.pages, nil
}

func (f *fakeNotionAPI) GetDatabaseSchema(ctx context.Context, databaseID string) (map[string]interface{}, error) {
	f.schemaCalls++
	return f.schema, nil
}

func (f *fakeNotionAPI) UpdateDatabaseProperties(ctx context.Context, databaseID string, properties map[string]interface{}) error {
	f.updateCalls++
	return nil
}

func (f *fakeNotionAPI) UpdatePageText(ctx context.Context, pageID, textProperty, textContent string) error {
	if f.failPageIDs[pageID] {
		return apperrors.NewByCode(apperrors.ErrPageUpdateFailed)
	}
	f.pageUpdates = append(f.pageUpdates, pageID)
	return nil
}

func (f *fakeNotionAPI) GetPageBlocks(ctx context.Context, pageID string) ([]notion.Block, error) {
	return f.blocks, nil
}

// setupTestDB 设置测试数据库
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// pageWithText 构造带标题与文本属性的页面
func pageWithText(id, title, text string) notion.Page {
	textValue := []interface{}{}
	if text != "" {
		textValue = []interface{}{
			map[string]interface{}{"plain_text": text},
		}
	}
	return notion.Page{
		"id": id,
		"properties": map[string]interface{}{
			"文档名称": map[string]interface{}{
				"title": []interface{}{
					map[string]interface{}{"plain_text": title},
				},
			},
			"文本": map[string]interface{}{
				"rich_text": textValue,
			},
		},
	}
}

func TestListDatabases(t *testing.T) {
	api := &fakeNotionAPI{
		databases: []notion.Database{
			{
				"id": "db-1",
				"title": []interface{}{
					map[string]interface{}{"plain_text": "文档中心"},
				},
			},
			{"id": "db-2"},
		},
	}
	svc := NewWorkspaceService(api, setupTestDB(t))

	summaries, err := svc.ListDatabases(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "db-1", summaries[0].ID)
	assert.Equal(t, "文档中心", summaries[0].Title)

	t.Run("缺少标题时返回未命名", func(t *testing.T) {
		assert.Equal(t, "未命名", summaries[1].Title)
	})
}

func TestGetDatabaseContent(t *testing.T) {
	api := &fakeNotionAPI{
		pages: []notion.Page{
			pageWithText("page-1", "第一页", ""),
			pageWithText("page-2", "第二页", "已有内容"),
		},
	}
	svc := NewWorkspaceService(api, setupTestDB(t))

	t.Run("数据库ID为空时校验失败", func(t *testing.T) {
		_, err := svc.GetDatabaseContent(context.Background(), "", false)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		// 校验失败时不应发起任何网络请求
		assert.Equal(t, 0, api.queryCalls)
	})

	t.Run("拉取内容并写入快照", func(t *testing.T) {
		pages, err := svc.GetDatabaseContent(context.Background(), "db-1", false)
		require.NoError(t, err)
		assert.Len(t, pages, 2)
		assert.Equal(t, 1, api.queryCalls)
	})

	t.Run("启用缓存时命中快照不回源", func(t *testing.T) {
		pages, err := svc.GetDatabaseContent(context.Background(), "db-1", true)
		require.NoError(t, err)
		assert.Len(t, pages, 2)
		assert.Equal(t, "第一页", pages[0].Title(TitleProperty))
		assert.Equal(t, 1, api.queryCalls)
	})
}

func TestAddProperty(t *testing.T) {
	api := &fakeNotionAPI{
		schema: map[string]interface{}{
			"文档名称": map[string]interface{}{"type": "title"},
		},
	}
	db := setupTestDB(t)
	svc := NewWorkspaceService(api, db)

	t.Run("必填参数缺失时不发起请求", func(t *testing.T) {
		err := svc.AddProperty(context.Background(), &AddPropertyRequest{DatabaseID: "db-1"})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, api.schemaCalls)
	})

	t.Run("属性已存在时失败且不提交变更", func(t *testing.T) {
		err := svc.AddProperty(context.Background(), &AddPropertyRequest{
			DatabaseID:   "db-1",
			PropertyName: "文档名称",
			PropertyType: "rich_text",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrPropertyExists))
		assert.Equal(t, 0, api.updateCalls)
	})

	t.Run("添加成功并写入审计日志", func(t *testing.T) {
		err := svc.AddProperty(context.Background(), &AddPropertyRequest{
			DatabaseID:   "db-1",
			PropertyName: "备注",
			PropertyType: "rich_text",
			DefaultValue: "默认内容",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, api.updateCalls)

		var logs []database.OperationLog
		require.NoError(t, db.Where("action = ?", database.ActionAddProperty).Find(&logs).Error)
		// 失败与成功的操作都会留下日志
		require.Len(t, logs, 2)
		assert.Equal(t, database.StatusFailed, logs[0].Status)
		assert.Equal(t, database.StatusSuccess, logs[1].Status)
		assert.Equal(t, "备注", logs[1].PropertyName)
	})
}

func TestRemoveProperty(t *testing.T) {
	api := &fakeNotionAPI{
		schema: map[string]interface{}{
			"状态": map[string]interface{}{"type": "select"},
		},
	}
	svc := NewWorkspaceService(api, setupTestDB(t))

	t.Run("属性不存在时失败", func(t *testing.T) {
		err := svc.RemoveProperty(context.Background(), "db-1", "不存在的属性")
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrPropertyNotFound))
		assert.Equal(t, 0, api.updateCalls)
	})

	t.Run("删除成功", func(t *testing.T) {
		err := svc.RemoveProperty(context.Background(), "db-1", "状态")
		require.NoError(t, err)
		assert.Equal(t, 1, api.updateCalls)
	})
}

func TestFilterDatabase(t *testing.T) {
	api := &fakeNotionAPI{}
	svc := NewWorkspaceService(api, setupTestDB(t))

	t.Run("筛选值缺失时校验失败", func(t *testing.T) {
		_, err := svc.FilterDatabase(context.Background(), &FilterRequest{
			DatabaseID:     "db-1",
			FilterProperty: "状态",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, api.queryCalls)
	})

	t.Run("空结果是合法的成功响应", func(t *testing.T) {
		pages, err := svc.FilterDatabase(context.Background(), &FilterRequest{
			DatabaseID:     "db-1",
			FilterProperty: "状态",
			FilterValue:    "未开始",
		})
		require.NoError(t, err)
		assert.Empty(t, pages)
	})
}

func TestBulkUpdateText(t *testing.T) {
	t.Run("仅更新文本为空的页面", func(t *testing.T) {
		api := &fakeNotionAPI{
			pages: []notion.Page{
				pageWithText("page-1", "第一页", ""),
				pageWithText("page-2", "第二页", "已有内容"),
				pageWithText("page-3", "第三页", ""),
			},
		}
		db := setupTestDB(t)
		svc := NewWorkspaceService(api, db)

		count, err := svc.BulkUpdateText(context.Background(), "db-1", "测试数据")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{"page-1", "page-3"}, api.pageUpdates)

		var entry database.OperationLog
		require.NoError(t, db.Where("action = ?", database.ActionBulkUpdateText).First(&entry).Error)
		assert.Equal(t, 2, entry.SuccessCount)
		assert.Equal(t, database.StatusSuccess, entry.Status)
	})

	t.Run("单页失败不中断整体流程", func(t *testing.T) {
		api := &fakeNotionAPI{
			pages: []notion.Page{
				pageWithText("page-1", "第一页", ""),
				pageWithText("page-2", "第二页", ""),
			},
			failPageIDs: map[string]bool{"page-1": true},
		}
		svc := NewWorkspaceService(api, setupTestDB(t))

		count, err := svc.BulkUpdateText(context.Background(), "db-1", "测试数据")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("文本内容为空时校验失败", func(t *testing.T) {
		api := &fakeNotionAPI{}
		svc := NewWorkspaceService(api, setupTestDB(t))

		_, err := svc.BulkUpdateText(context.Background(), "db-1", "")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 0, api.queryCalls)
	})
}

func TestSnapshotInvalidation(t *testing.T) {
	api := &fakeNotionAPI{
		pages: []notion.Page{
			pageWithText("page-1", "第一页", ""),
		},
		schema: map[string]interface{}{},
	}
	db := setupTestDB(t)
	svc := NewWorkspaceService(api, db)

	// 先拉取一次内容生成快照
	_, err := svc.GetDatabaseContent(context.Background(), "db-1", false)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&database.PageSnapshot{}).Where("database_id = ?", "db-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 变更操作后快照必须失效
	require.NoError(t, svc.AddProperty(context.Background(), &AddPropertyRequest{
		DatabaseID:   "db-1",
		PropertyName: "备注",
		PropertyType: "rich_text",
	}))

	require.NoError(t, db.Model(&database.PageSnapshot{}).Where("database_id = ?", "db-1").Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// 失效后启用缓存也会回源
	before := api.queryCalls
	_, err = svc.GetDatabaseContent(context.Background(), "db-1", true)
	require.NoError(t, err)
	assert.Equal(t, before+1, api.queryCalls)
}

func TestListOperationLogs(t *testing.T) {
	db := setupTestDB(t)
	svc := NewWorkspaceService(&fakeNotionAPI{}, db)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&database.OperationLog{
			Action:     database.ActionBulkUpdateText,
			DatabaseID: "db-1",
			Status:     database.StatusSuccess,
		}).Error)
	}

	logs, total, err := svc.ListOperationLogs(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 2)
}
