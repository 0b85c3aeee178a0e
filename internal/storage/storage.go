// Package storage provides S3-compatible object storage for post and profile
// images: presigned upload URLs for clients and direct puts for server-side
// processed images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"moments/internal/config"
)

const signingRegion = "us-east-1"

// ErrEmptyKey is returned when an object key is blank
var ErrEmptyKey = errors.New("storage: object key cannot be empty")

// Service defines the interface for storage operations
type Service interface {
	// GeneratePresignedUploadURL creates a time-limited URL a client can PUT the object to
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error)

	// PutObject stores body under key and returns its public URL
	PutObject(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error)

	// DeleteFile removes an object
	DeleteFile(ctx context.Context, key string) error

	// ObjectURL is the public URL of key
	ObjectURL(key string) string

	// EnsureBucketExists creates the bucket if it doesn't exist
	EnsureBucketExists(ctx context.Context) error

	// Health checks if the storage service is accessible
	Health(ctx context.Context) error
}

type service struct {
	client          *s3.Client
	publicPresigner *s3.PresignClient
	bucketName      string
	publicBaseURL   string
	logger          *slog.Logger
}

// New creates a storage service for an S3-compatible endpoint (MinIO in development)
func New(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (Service, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("S3 endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("S3 access key and secret key are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}

	publicEndpoint := cfg.PublicEndpoint
	if publicEndpoint == "" {
		publicEndpoint = cfg.Endpoint
	}
	logger.Info("Configuring object storage", "endpoint", cfg.Endpoint, "public_endpoint", publicEndpoint, "bucket", cfg.Bucket)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(signingRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := newClient(awsCfg, baseURL(cfg.UseSSL, cfg.Endpoint))

	// Presigned URLs are handed to browsers, so they must carry the public host
	publicPresigner := s3.NewPresignClient(client)
	if publicEndpoint != cfg.Endpoint {
		publicPresigner = s3.NewPresignClient(newClient(awsCfg, baseURL(cfg.UseSSL, publicEndpoint)))
	}

	s := &service{
		client:          client,
		publicPresigner: publicPresigner,
		bucketName:      cfg.Bucket,
		publicBaseURL:   baseURL(cfg.UseSSL, publicEndpoint),
		logger:          logger,
	}

	if err := s.EnsureBucketExists(ctx); err != nil {
		logger.Warn("Failed to ensure bucket exists", "bucket", cfg.Bucket, "error", err)
	}

	return s, nil
}

// Path-style addressing is required for MinIO
func newClient(cfg aws.Config, endpoint string) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
}

func baseURL(useSSL bool, host string) string {
	protocol := "http"
	if useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s", protocol, strings.TrimSuffix(host, "/"))
}

// objectURL builds the path-style public URL of an object
func objectURL(base, bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", base, bucket, strings.TrimPrefix(key, "/"))
}

// EnsureBucketExists creates the bucket if it doesn't already exist
func (s *service) EnsureBucketExists(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err == nil {
		return nil
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Created S3 bucket", "bucket", s.bucketName)
	return nil
}

// GeneratePresignedUploadURL creates a presigned URL for uploading
func (s *service) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if contentType == "" {
		return "", fmt.Errorf("content type cannot be empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("TTL must be positive")
	}

	request, err := s.publicPresigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = ttl
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned upload URL for key %s: %w", key, err)
	}

	return request.URL, nil
}

// PutObject uploads body and returns the object's public URL
func (s *service) PutObject(ctx context.Context, key string, contentType string, body io.Reader, size int64) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		Body:          body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return s.ObjectURL(key), nil
}

// DeleteFile removes a file from storage
func (s *service) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file %s: %w", key, err)
	}

	return nil
}

// ObjectURL returns the public URL of key
func (s *service) ObjectURL(key string) string {
	return objectURL(s.publicBaseURL, s.bucketName, key)
}

// Health checks if the storage service is accessible
func (s *service) Health(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucketName),
	})
	if err != nil {
		return fmt.Errorf("storage health check failed: %w", err)
	}
	return nil
}
