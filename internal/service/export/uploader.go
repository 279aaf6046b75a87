package export

import (
	"fmt"
	"io"

	"github.com/Alucardzh/notion-works/config"
)

// Uploader 对象存储上传接口
// 导出服务通过此接口将导出文件推送到云端备份
type Uploader interface {
	// Upload 上传对象
	// 参数:
	//   - objectKey: 存储中的对象键（文件路径）
	//   - reader: 文件数据流
	//   - contentType: 文件的MIME类型
	Upload(objectKey string, reader io.Reader, contentType string) error

	// Provider 返回提供商标识
	Provider() string
}

// NewUploader 根据配置创建对象存储上传器
// 支持的提供商：aliyun（阿里云OSS）、tencent（腾讯云COS）、qiniu（七牛云Kodo）
func NewUploader(cfg config.OSSConfig) (Uploader, error) {
	switch cfg.Provider {
	case "aliyun":
		return NewAliyunUploader(cfg)
	case "tencent":
		return NewTencentUploader(cfg)
	case "qiniu":
		return NewQiniuUploader(cfg)
	default:
		return nil, fmt.Errorf("unsupported oss provider: %s", cfg.Provider)
	}
}
