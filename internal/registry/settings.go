package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/internal/storage"
)

// Settings holds per-device preferences kept next to the records.
type Settings struct {
	blob storage.BlobStore
}

func NewSettings(blob storage.BlobStore) *Settings {
	return &Settings{blob: blob}
}

// OperatorName returns the saved operator name, or "" when none is set.
func (s *Settings) OperatorName(ctx context.Context) (string, error) {
	data, err := s.blob.Get(ctx, storage.KeyOperatorName)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read operator name: %w", err)
	}
	return string(data), nil
}

// SetOperatorName saves name after trimming. A blank name removes the setting
// so registrations fall back to the default operator.
func (s *Settings) SetOperatorName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		if err := s.blob.Delete(ctx, storage.KeyOperatorName); err != nil {
			return fmt.Errorf("clear operator name: %w", err)
		}
		return nil
	}
	if err := s.blob.Put(ctx, storage.KeyOperatorName, []byte(name)); err != nil {
		return fmt.Errorf("store operator name: %w", err)
	}
	return nil
}

// DisplayOperator is the name shown for an unset operator.
func DisplayOperator(name string) string {
	if name == "" {
		return models.DefaultOperatorName
	}
	return name
}
