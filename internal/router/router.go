// Package router 配置HTTP路由
// 路径与原有前端脚本约定保持一致：数据库管理接口挂载在根路径下
package router

import (
	"github.com/Alucardzh/notion-works/config"
	"github.com/Alucardzh/notion-works/internal/handler"
	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/Alucardzh/notion-works/internal/middleware"
	"github.com/Alucardzh/notion-works/internal/notion"
	"github.com/Alucardzh/notion-works/internal/service/export"
	"github.com/Alucardzh/notion-works/internal/service/workspace"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
	db     *gorm.DB
}

// NewRouter 创建路由实例
func NewRouter(loggerMiddleware *middleware.LoggerMiddleware, db *gorm.DB, cfg *config.Config) *Router {
	// 设置Gin模式
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	// 初始化Notion客户端与服务
	notionClient := notion.NewClient(cfg.Notion)
	workspaceService := workspace.NewWorkspaceService(notionClient, db)

	// 对象存储上传器为可选依赖，配置不完整时仅本地导出
	var uploader export.Uploader
	if cfg.Export.Upload {
		var err error
		uploader, err = export.NewUploader(cfg.Export.OSS)
		if err != nil {
			logger.Errorf("对象存储上传器初始化失败: %v", err)
			uploader = nil
		}
	}
	exportService := export.NewExportService(notionClient, cfg.Export, uploader)

	// 初始化处理器
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	exportHandler := handler.NewExportHandler(exportService)

	// 使用中间件
	engine.Use(gin.Recovery())
	engine.Use(loggerMiddleware.RequestID())
	engine.Use(loggerMiddleware.RequestLogger())

	// 配置CORS
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// 前端页面与静态资源
	engine.LoadHTMLGlob(cfg.Server.TemplateGlob)
	engine.Static("/static", cfg.Server.StaticDir)
	engine.GET("/", func(c *gin.Context) {
		c.HTML(200, "index.html", nil)
	})

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Service is running",
		})
	})

	// 数据库管理接口
	databases := engine.Group("/databases")
	{
		databases.GET("", workspaceHandler.ListDatabases)
		databases.GET("/:id", workspaceHandler.GetDatabaseContent)
		databases.GET("/:id/schema", workspaceHandler.GetDatabaseSchema)
		databases.POST("/property", workspaceHandler.AddProperty)
		databases.DELETE("/:id/properties/:name", workspaceHandler.RemoveProperty)
		databases.POST("/filter", workspaceHandler.FilterDatabase)
		databases.POST("/update-text", workspaceHandler.BulkUpdateText)
		databases.POST("/export/:id", exportHandler.ExportDatabase)
	}

	// 页面内容接口
	pages := engine.Group("/pages")
	{
		pages.GET("/:id/markdown", workspaceHandler.GetPageMarkdown)
	}

	// 操作审计日志
	engine.GET("/logs", workspaceHandler.ListOperationLogs)

	return &Router{
		engine: engine,
		db:     db,
	}
}

// GetEngine 获取Gin引擎
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// GetDB 获取数据库连接
func (r *Router) GetDB() *gorm.DB {
	return r.db
}
