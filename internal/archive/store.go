package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"creaturedex/platform/config"
)

// ObjectStore is the slice of S3-compatible storage the archive needs.
type ObjectStore interface {
	EnsureBucketExists(ctx context.Context, bucket string) error
	PutObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) error
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]string, error)
}

// MinIOStore is an ObjectStore on MinIO or any S3 endpoint.
type MinIOStore struct {
	mc *minio.Client
}

var _ ObjectStore = (*MinIOStore)(nil)

// NewMinIOStore builds the client from cfg. No request is made until first
// use.
func NewMinIOStore(cfg config.ArchiveConfig) (*MinIOStore, error) {
	if !cfg.IsArchiveEnabled() {
		return nil, fmt.Errorf("snapshot archive: MINIO_ENDPOINT is not set")
	}

	mc, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot archive: %w", err)
	}
	return &MinIOStore{mc: mc}, nil
}

func (s *MinIOStore) EnsureBucketExists(ctx context.Context, bucket string) error {
	found, err := s.mc.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("look up bucket %s: %w", bucket, err)
	}
	if found {
		return nil
	}
	if err := s.mc.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *MinIOStore) PutObject(ctx context.Context, bucket, key, contentType string, reader io.Reader, size int64) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.mc.PutObject(ctx, bucket, key, reader, size, opts); err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// GetObject opens key for reading. The caller closes it.
func (s *MinIOStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := s.mc.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// ListObjects returns every key under prefix, recursively.
func (s *MinIOStore) ListObjects(ctx context.Context, bucket, prefix string) ([]string, error) {
	var keys []string
	for info := range s.mc.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if info.Err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, info.Err)
		}
		keys = append(keys, info.Key)
	}
	return keys, nil
}
