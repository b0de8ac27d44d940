package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/voltmart/voltmart/internal/platform/httpx"
)

// MaxImageSize is the upload size ceiling.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// BucketConfig describes the S3-compatible bucket images land in.
type BucketConfig struct {
	Host            string
	Name            string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// Storage stores images in an S3-compatible bucket behind a path-style
// endpoint.
type Storage struct {
	client *s3.Client
	bucket string
	host   string
}

// NewStorage builds a Storage against the configured bucket endpoint.
func NewStorage(ctx context.Context, cfg BucketConfig) (*Storage, error) {
	if cfg.Host == "" || cfg.Name == "" {
		return nil, fmt.Errorf("uploads: bucket host and name must be configured")
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("uploads: load bucket config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://" + cfg.Host)
		o.UsePathStyle = true
	})
	return &Storage{client: client, bucket: cfg.Name, host: cfg.Host}, nil
}

// ValidateImage rejects anything that is not an image by extension and
// declared content type, and anything over the size ceiling.
func ValidateImage(filename, contentType string, size int64) error {
	if size > MaxImageSize {
		return httpx.Errf(httpx.ErrValidation, "File too large. Maximum size is 5MB")
	}
	ext := strings.ToLower(path.Ext(filename))
	if !allowedImageExts[ext] || !allowedImageTypes[strings.ToLower(contentType)] {
		return httpx.Errf(httpx.ErrValidation, "Only image files are allowed (jpeg, jpg, png, webp, gif)")
	}
	return nil
}

// ObjectKey builds a unique key under folder, keeping the original extension.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%d-%s%s", folder, time.Now().UnixMilli(), uuid.NewString(), ext)
}

// Put uploads the object and returns its public URL.
func (s *Storage) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploads: put %s: %w", key, err)
	}
	return s.URL(key), nil
}

// Delete removes the object behind key.
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("uploads: delete %s: %w", key, err)
	}
	return nil
}

// URL returns the public path-style URL for an object key.
func (s *Storage) URL(key string) string {
	return fmt.Sprintf("https://%s/%s/%s", s.host, s.bucket, key)
}
