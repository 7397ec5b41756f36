package archive

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/disasterbio/internal/models"
	"github.com/your-org/disasterbio/pkg/dto"
)

type fakeObjects struct {
	objects map[string][]byte
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, key string, data []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) ListObjects(_ context.Context, prefix string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func TestArchiverStore(t *testing.T) {
	objs := &fakeObjects{}
	a := NewArchiver(objs)
	batch := dto.SyncBatch{
		ID:         "b-1",
		Operator:   "Asha",
		UploadedAt: time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC),
		Records:    models.SeedRecords()[:1],
	}

	require.NoError(t, a.Store(context.Background(), batch))
	data, ok := objs.objects["sync/2025-06-30/b-1.json"]
	require.True(t, ok)

	var back dto.SyncBatch
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, batch, back)
}

func TestArchiverKeyFallsBackToNow(t *testing.T) {
	a := NewArchiver(&fakeObjects{})
	a.now = func() time.Time { return time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, "sync/2025-01-05/x.json", a.Key(dto.SyncBatch{ID: "x"}))
}

func TestArchiverErrors(t *testing.T) {
	a := NewArchiver(&fakeObjects{err: errors.New("bucket gone")})
	assert.Error(t, a.Store(context.Background(), dto.SyncBatch{}))
	assert.ErrorContains(t, a.Store(context.Background(), dto.SyncBatch{ID: "b"}), "bucket gone")
}

func TestArchiverBatches(t *testing.T) {
	ctx := context.Background()
	a := NewArchiver(&fakeObjects{})
	day := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	require.NoError(t, a.Store(ctx, dto.SyncBatch{ID: "b-2", UploadedAt: day}))
	require.NoError(t, a.Store(ctx, dto.SyncBatch{ID: "b-1", UploadedAt: day.Add(-time.Hour)}))
	require.NoError(t, a.Store(ctx, dto.SyncBatch{ID: "b-3", UploadedAt: day.AddDate(0, 0, 1)}))

	keys, err := a.Batches(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, []string{"sync/2025-06-30/b-1.json", "sync/2025-06-30/b-2.json"}, keys)

	_, err = NewArchiver(&fakeObjects{err: errors.New("bucket gone")}).Batches(ctx, day)
	assert.ErrorContains(t, err, "bucket gone")
}
