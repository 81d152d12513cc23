package config

import (
	"context"
	"errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrMinIODisabled = errors.New("minio endpoint not configured")

// NewMinIOClient connects to the bucket used to cache organization branding
// images. The bucket stays private; objects are only read back by this service.
func NewMinIOClient(cfg *Config) (*minio.Client, error) {
	if cfg.MinIOEndpoint == "" {
		return nil, ErrMinIODisabled
	}

	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return client, nil
}
