// Package config 提供应用程序配置管理
// 基于viper实现，支持配置文件与环境变量加载
// 包含服务器、Notion、数据库、日志及导出存储等配置项
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config 应用程序配置
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // 服务器配置
	Notion   NotionConfig   `mapstructure:"notion"`   // Notion API配置
	Database DatabaseConfig `mapstructure:"database"` // 数据库配置
	Log      LogConfig      `mapstructure:"log"`      // 日志配置
	Export   ExportConfig   `mapstructure:"export"`   // 导出与备份配置
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         int    `mapstructure:"port"`           // HTTP监听端口
	ReadTimeout  int    `mapstructure:"read_timeout"`   // 读超时（秒）
	WriteTimeout int    `mapstructure:"write_timeout"`  // 写超时（秒）
	EnableHTTPS  bool   `mapstructure:"enable_https"`   // 是否启用HTTPS
	EnableHTTP2  bool   `mapstructure:"enable_http2"`   // 是否启用HTTP/2（仅HTTPS下生效）
	HTTPSPort    int    `mapstructure:"https_port"`     // HTTPS监听端口
	TLSCertFile  string `mapstructure:"tls_cert_file"`  // TLS证书文件路径
	TLSKeyFile   string `mapstructure:"tls_key_file"`   // TLS私钥文件路径
	StaticDir    string `mapstructure:"static_dir"`     // 静态资源目录
	TemplateGlob string `mapstructure:"template_glob"`  // HTML模板匹配路径
}

// NotionConfig Notion API配置
type NotionConfig struct {
	Token       string  `mapstructure:"token"`        // 集成令牌，可由环境变量NOTION_WORKSPACE_TOKEN覆盖
	BaseURL     string  `mapstructure:"base_url"`     // API基础地址
	Version     string  `mapstructure:"version"`      // Notion-Version请求头
	RateLimit   float64 `mapstructure:"rate_limit"`   // API调用最小间隔（秒）
	TimeoutSecs int     `mapstructure:"timeout_secs"` // 单次请求超时（秒）
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`            // 数据库驱动，目前仅支持sqlite
	DSN             string `mapstructure:"dsn"`               // 数据源名称
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`    // 最大空闲连接数
	MaxOpenConns    int    `mapstructure:"max_open_conns"`    // 最大打开连接数
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 连接最大生存时间（秒）
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level"`     // 日志级别
	Format   string `mapstructure:"format"`    // 日志格式 (json, text)
	Output   string `mapstructure:"output"`    // 输出方式 (console, file, both)
	FilePath string `mapstructure:"file_path"` // 日志文件路径
}

// ExportConfig 导出与备份配置
type ExportConfig struct {
	OutputDir string    `mapstructure:"output_dir"` // 本地导出目录
	Upload    bool      `mapstructure:"upload"`     // 导出后是否上传至对象存储
	OSS       OSSConfig `mapstructure:"oss"`        // 对象存储配置
}

// OSSConfig 对象存储配置
// 支持阿里云OSS、腾讯云COS、七牛云Kodo三种提供商
type OSSConfig struct {
	Provider  string `mapstructure:"provider"`   // 提供商：aliyun、tencent、qiniu
	Region    string `mapstructure:"region"`     // 服务区域
	Bucket    string `mapstructure:"bucket"`     // 存储桶名称
	AccessKey string `mapstructure:"access_key"` // 访问密钥ID
	SecretKey string `mapstructure:"secret_key"` // 访问密钥Secret
	Endpoint  string `mapstructure:"endpoint"`   // 自定义服务端点，可选
	Prefix    string `mapstructure:"prefix"`     // 上传路径前缀
}

// Load 加载配置
// 依次读取config.yaml与环境变量，环境变量优先
// 返回值:
//   - *Config: 配置实例
//   - error: 加载错误
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)

	// 环境变量覆盖，如NOTION_SERVER_PORT
	v.SetEnvPrefix("NOTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 配置文件缺失时使用默认值，其他错误直接返回
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 集成令牌优先取专用环境变量，与原始部署方式保持一致
	if token := v.GetString("workspace_token"); token != "" {
		cfg.Notion.Token = token
	}

	return &cfg, nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 60)
	v.SetDefault("server.enable_https", false)
	v.SetDefault("server.enable_http2", false)
	v.SetDefault("server.https_port", 8443)
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.template_glob", "templates/*.html")

	v.SetDefault("notion.base_url", "https://api.notion.com")
	v.SetDefault("notion.version", "2022-06-28")
	v.SetDefault("notion.rate_limit", 0.5)
	v.SetDefault("notion.timeout_secs", 30)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "data/notion-works.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 3600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "both")
	v.SetDefault("log.file_path", "logs/app.log")

	v.SetDefault("export.output_dir", "exports")
	v.SetDefault("export.upload", false)
	v.SetDefault("export.oss.provider", "aliyun")
	v.SetDefault("export.oss.prefix", "notion-exports")
}
