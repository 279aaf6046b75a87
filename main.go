// Notion 数据库管理工具
// 提供浏览与编辑Notion数据库的Web界面与HTTP服务
package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/net/http2"

	"github.com/Alucardzh/notion-works/config"
	"github.com/Alucardzh/notion-works/internal/database"
	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/Alucardzh/notion-works/internal/middleware"
	"github.com/Alucardzh/notion-works/internal/router"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.Notion.Token == "" {
		logger.Warnf("未配置Notion集成令牌，所有API调用都会失败（设置NOTION_WORKSPACE_TOKEN）")
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.GetLogger().Fatalf("Failed to initialize database: %v", err)
	}

	// 初始化中间件与路由
	loggerMiddleware := middleware.NewLoggerMiddleware()
	r := router.NewRouter(loggerMiddleware, db, cfg)

	srv := buildServer(cfg, r)

	// 启动服务器
	go func() {
		var err error
		if cfg.Server.EnableHTTPS {
			logger.Infof("HTTPS服务器启动在端口 %d (HTTP/2: %v)", cfg.Server.HTTPSPort, cfg.Server.EnableHTTP2)
			err = srv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
		} else {
			logger.Infof("HTTP服务器启动在端口 %d", cfg.Server.Port)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")

	// 优雅关闭服务器
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Fatalf("服务器强制关闭: %v", err)
	}

	logger.Info("服务器已退出")
}

// buildServer 根据配置构建HTTP或HTTPS服务器
func buildServer(cfg *config.Config, r *router.Router) *http.Server {
	port := cfg.Server.Port
	if cfg.Server.EnableHTTPS {
		port = cfg.Server.HTTPSPort
	}

	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(port),
		Handler:      r.GetEngine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	if cfg.Server.EnableHTTPS {
		srv.TLSConfig = &tls.Config{
			NextProtos: []string{"h2", "http/1.1"},
		}
		if cfg.Server.EnableHTTP2 {
			if err := http2.ConfigureServer(srv, &http2.Server{}); err != nil {
				logger.GetLogger().Fatalf("配置HTTP/2失败: %v", err)
			}
		}
	}

	return srv
}
