package export

import (
	"fmt"
	"io"

	"github.com/Alucardzh/notion-works/config"
	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// AliyunUploader 阿里云OSS上传器
type AliyunUploader struct {
	bucket *oss.Bucket
	cfg    config.OSSConfig
}

// NewAliyunUploader 创建阿里云OSS上传器实例
func NewAliyunUploader(cfg config.OSSConfig) (*AliyunUploader, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://oss-%s.aliyuncs.com", cfg.Region)
	}

	client, err := oss.New(endpoint, cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create aliyun oss client: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", cfg.Bucket, err)
	}

	return &AliyunUploader{bucket: bucket, cfg: cfg}, nil
}

// Upload 上传对象到阿里云OSS
func (u *AliyunUploader) Upload(objectKey string, reader io.Reader, contentType string) error {
	options := []oss.Option{}
	if contentType != "" {
		options = append(options, oss.ContentType(contentType))
	}

	if err := u.bucket.PutObject(objectKey, reader, options...); err != nil {
		logger.Errorf("[阿里云OSS] 上传失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload to aliyun oss: %w", err)
	}

	logger.Infof("[阿里云OSS] 成功上传: %s", objectKey)
	return nil
}

// Provider 返回提供商标识
func (u *AliyunUploader) Provider() string {
	return "aliyun"
}
