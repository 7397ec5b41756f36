package storage

import (
	"context"
	"fmt"

	"github.com/your-org/disasterbio/internal/config"
)

// OpenBlobStore connects the backend selected by cfg.Blob.Driver.
func OpenBlobStore(ctx context.Context, cfg *config.Config) (BlobStore, error) {
	switch cfg.Blob.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		s, err := NewPostgresStore(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "redis":
		return NewRedisStore(cfg.Redis, cfg.Blob.Prefix)
	case "minio":
		objects, err := NewMinIOStore(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		if err := objects.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return NewMinIOBlobStore(objects, cfg.Blob.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Blob.Driver)
	}
}
