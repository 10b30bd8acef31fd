package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"upload-server/config"
)

const minioPartSize = 16 << 20

// MinioBackend streams bodies of unknown size with a multipart upload that is
// aborted when the body or the connection fails.
type MinioBackend struct {
	logger *zap.Logger
	client *minio.Client
	bucket string
}

// NewMinioBackend connects to MinIO and makes sure the bucket exists and is
// publicly readable, so object URLs resolve without signing.
func NewMinioBackend(ctx context.Context, logger *zap.Logger, cfg config.Storage) (*MinioBackend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
		logger.Info("storage bucket created", zap.String("bucket", cfg.Bucket))
	}
	if err = client.SetBucketPolicy(ctx, cfg.Bucket, publicReadPolicy(cfg.Bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	logger.Info("minio storage configured", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))

	return &MinioBackend{
		logger: logger,
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (b *MinioBackend) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, body, -1, minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    minioPartSize,
	})
	if err != nil {
		return fmt.Errorf("minio put object %q: %w", key, err)
	}
	return nil
}

func publicReadPolicy(bucket string) string {
	policy := map[string]any{
		"Version": "2012-10-17",
		"Statement": []map[string]any{
			{
				"Effect":    "Allow",
				"Principal": map[string]any{"AWS": []string{"*"}},
				"Action":    []string{"s3:GetObject"},
				"Resource":  []string{fmt.Sprintf("arn:aws:s3:::%s/*", bucket)},
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
