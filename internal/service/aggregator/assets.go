package aggregator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"doc-authorizer/internal/pkg/logger"
)

const defaultImageType = "image/png"

// AssetCache keeps branding images between views. Misses and write failures
// are never fatal.
type AssetCache interface {
	Get(ctx context.Context, url string) (string, bool)
	Put(ctx context.Context, url, contentType string, data []byte)
}

type minioAssetCache struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

func NewMinIOAssetCache(client *minio.Client, bucket string, log *zap.Logger) AssetCache {
	return &minioAssetCache{
		client: client,
		bucket: bucket,
		log:    logger.OrNop(log).Named("asset_cache"),
	}
}

func objectKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "branding/" + hex.EncodeToString(sum[:])
}

func (c *minioAssetCache) Get(ctx context.Context, url string) (string, bool) {
	obj, err := c.client.GetObject(ctx, c.bucket, objectKey(url), minio.GetObjectOptions{})
	if err != nil {
		return "", false
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return "", false
	}

	data, err := io.ReadAll(obj)
	if err != nil || len(data) == 0 {
		return "", false
	}
	return dataURI(info.ContentType, data), true
}

func (c *minioAssetCache) Put(ctx context.Context, url, contentType string, data []byte) {
	_, err := c.client.PutObject(ctx, c.bucket, objectKey(url), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		c.log.Warn("failed to cache branding asset", zap.String("url", url), zap.Error(err))
	}
}

func dataURI(contentType string, data []byte) string {
	if contentType == "" {
		contentType = defaultImageType
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
