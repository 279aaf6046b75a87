package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Alucardzh/notion-works/config"
	"github.com/Alucardzh/notion-works/internal/logger"
	cos "github.com/tencentyun/cos-go-sdk-v5"
)

// TencentUploader 腾讯云COS上传器
type TencentUploader struct {
	client *cos.Client
	cfg    config.OSSConfig
}

// NewTencentUploader 创建腾讯云COS上传器实例
func NewTencentUploader(cfg config.OSSConfig) (*TencentUploader, error) {
	bucketURL := fmt.Sprintf("https://%s.cos.%s.myqcloud.com", cfg.Bucket, cfg.Region)
	if cfg.Endpoint != "" {
		bucketURL = cfg.Endpoint
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bucket URL: %w", err)
	}

	client := cos.NewClient(&cos.BaseURL{BucketURL: u}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		},
	})

	return &TencentUploader{client: client, cfg: cfg}, nil
}

// Upload 上传对象到腾讯云COS
func (u *TencentUploader) Upload(objectKey string, reader io.Reader, contentType string) error {
	options := &cos.ObjectPutOptions{}
	if contentType != "" {
		options.ObjectPutHeaderOptions = &cos.ObjectPutHeaderOptions{
			ContentType: contentType,
		}
	}

	if _, err := u.client.Object.Put(context.Background(), objectKey, reader, options); err != nil {
		logger.Errorf("[腾讯云COS] 上传失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload to tencent cos: %w", err)
	}

	logger.Infof("[腾讯云COS] 成功上传: %s", objectKey)
	return nil
}

// Provider 返回提供商标识
func (u *TencentUploader) Provider() string {
	return "tencent"
}
