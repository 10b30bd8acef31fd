package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"

	"upload-server/config"
)

const (
	// s3manager's minimum; memory per upload is PartSize * Concurrency.
	s3PartSize    = 5 << 20
	s3Concurrency = 2
)

// S3Backend uploads through s3manager, which switches to a multipart upload
// for large bodies and aborts it on failure, so a broken stream never becomes
// a visible object. Works against AWS S3 and Cloudflare R2.
type S3Backend struct {
	logger   *zap.Logger
	bucket   string
	uploader *s3manager.Uploader
}

func NewS3Backend(logger *zap.Logger, cfg config.Storage) (*S3Backend, error) {
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")).
		WithS3ForcePathStyle(cfg.Endpoint != "")
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint).WithDisableSSL(!cfg.UseSSL)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	uploader := s3manager.NewUploader(sess, func(u *s3manager.Uploader) {
		u.PartSize = s3PartSize
		u.Concurrency = s3Concurrency
		u.LeavePartsOnError = false
	})

	logger.Info("s3 storage configured", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))

	return &S3Backend{
		logger:   logger,
		bucket:   cfg.Bucket,
		uploader: uploader,
	}, nil
}

func (b *S3Backend) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := b.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 upload %q: %w", key, err)
	}
	return nil
}
