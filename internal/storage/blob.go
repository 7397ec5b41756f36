package storage

import (
	"context"
	"errors"
)

// Keys under which the registry keeps its state.
const (
	KeyVictims        = "disasterBioVictims"
	KeyLastSync       = "lastSync"
	KeyOperatorName   = "operatorName"
	KeyOfflineVictims = "offlineVictims"
)

// ErrNotFound is returned by BlobStore.Get for an absent key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is process-wide key-value storage holding whole serialized values.
// A Put is durable once it returns.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}
