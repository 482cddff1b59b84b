// Package storage 基于 S3 的证件文档存储
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"

	"github.com/fortivix/guardmarket/internal/onboarding/domain"
	"github.com/fortivix/guardmarket/pkg/config"
	"github.com/fortivix/guardmarket/pkg/logger"
)

// S3DocumentStore 把证件写入对象存储并返回公开访问 URL
type S3DocumentStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3DocumentStore 创建 S3 文档存储
func NewS3DocumentStore(ctx context.Context, cfg config.StorageConfig) (*S3DocumentStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	logger.Info(ctx, "S3 document store ready", "bucket", cfg.Bucket, "region", cfg.Region)
	return &S3DocumentStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

var _ domain.DocumentStore = (*S3DocumentStore)(nil)

// Upload 覆盖写入对象并返回公开 URL。内容类型按字节嗅探。
func (s *S3DocumentStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	contentType := mimetype.Detect(content).String()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(content),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(content))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return s.publicBaseURL + "/" + key, nil
}
