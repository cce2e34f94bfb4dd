package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bizlink/directory-backend/internal/domain/providers"
	"github.com/bizlink/directory-backend/pkg/config"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

// s3API is the subset of the S3 client the store uses
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store implements FileStore over an S3 bucket with public-read objects
type S3Store struct {
	client s3API
	bucket string
	region string
}

// NewS3Store creates an S3-backed file store using the default AWS
// credential chain
func NewS3Store(ctx context.Context, cfg *config.StorageConfig) (providers.FileStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// NewS3StoreWithClient creates a store over an existing client. Used in tests.
func NewS3StoreWithClient(client s3API, bucket, region string) providers.FileStore {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// Upload stores the blob and returns its public URL
func (s *S3Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperrors.NewExternalError("failed to upload to object storage", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
