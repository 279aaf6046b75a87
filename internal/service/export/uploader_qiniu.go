package export

import (
	"context"
	"fmt"
	"io"

	"github.com/Alucardzh/notion-works/config"
	"github.com/Alucardzh/notion-works/internal/logger"
	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
)

// QiniuUploader 七牛云Kodo上传器
type QiniuUploader struct {
	mac    *qbox.Mac
	region *storage.Region
	cfg    config.OSSConfig
}

// NewQiniuUploader 创建七牛云Kodo上传器实例
func NewQiniuUploader(cfg config.OSSConfig) (*QiniuUploader, error) {
	mac := qbox.NewMac(cfg.AccessKey, cfg.SecretKey)

	region, err := storage.GetRegion(cfg.AccessKey, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to get qiniu region: %w", err)
	}

	return &QiniuUploader{mac: mac, region: region, cfg: cfg}, nil
}

// Upload 上传对象到七牛云Kodo
func (u *QiniuUploader) Upload(objectKey string, reader io.Reader, contentType string) error {
	putPolicy := storage.PutPolicy{
		Scope: fmt.Sprintf("%s:%s", u.cfg.Bucket, objectKey),
	}
	upToken := putPolicy.UploadToken(u.mac)

	formUploader := storage.NewFormUploader(&storage.Config{
		Region:        u.region,
		UseHTTPS:      true,
		UseCdnDomains: false,
	})

	putExtra := storage.PutExtra{}
	if contentType != "" {
		putExtra.MimeType = contentType
	}

	ret := storage.PutRet{}
	if err := formUploader.Put(context.Background(), &ret, upToken, objectKey, reader, -1, &putExtra); err != nil {
		logger.Errorf("[七牛云Kodo] 上传失败, 对象键: %s, 错误: %v", objectKey, err)
		return fmt.Errorf("failed to upload to qiniu kodo: %w", err)
	}

	logger.Infof("[七牛云Kodo] 成功上传: %s, 哈希值: %s", objectKey, ret.Hash)
	return nil
}

// Provider 返回提供商标识
func (u *QiniuUploader) Provider() string {
	return "qiniu"
}
