package archive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
	"creaturedex/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	buckets map[string]bool
	objects map[string][]byte
	putErr  error
}

func newMemStore() *memStore {
	return &memStore{buckets: map[string]bool{}, objects: map[string][]byte{}}
}

func (m *memStore) EnsureBucketExists(_ context.Context, bucket string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buckets[bucket] = true
	return nil
}

func (m *memStore) PutObject(_ context.Context, bucket, key, _ string, reader io.Reader, size int64) error {
	if m.putErr != nil {
		return m.putErr
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if int64(len(raw)) != size {
		return errors.New("size mismatch")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = raw
	return nil
}

func (m *memStore) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (m *memStore) ListObjects(_ context.Context, bucket, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if key, ok := strings.CutPrefix(k, bucket+"/"); ok && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := newMemStore()
	a := New(store, "snapshots-bucket")
	ctx := context.Background()
	require.NoError(t, a.EnsureBucket(ctx))
	assert.True(t, store.buckets["snapshots-bucket"])

	created := time.Now()
	records := []creature.Record{
		{ID: 25, Name: "pikachu", Height: 4, Weight: 60, BaseExperience: 112, CreatedAt: &created},
		{ID: 1, Name: "bulbasaur"},
	}
	key, err := a.Snapshot(ctx, records)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "snapshots/"))

	loaded, err := a.Load(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "pikachu", loaded[0].Name)
	assert.Nil(t, loaded[0].CreatedAt)
}

func TestLatestPicksNewestKey(t *testing.T) {
	store := newMemStore()
	a := New(store, "b")
	ctx := context.Background()

	_, err := a.Latest(ctx)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	a.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	_, err = a.Snapshot(ctx, nil)
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	newest, err := a.Snapshot(ctx, nil)
	require.NoError(t, err)

	latest, err := a.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, newest, latest)
}

func TestSnapshotPropagatesStoreFailure(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("access denied")

	_, err := New(store, "b").Snapshot(context.Background(), []creature.Record{{ID: 1, Name: "a"}})
	assert.ErrorIs(t, err, store.putErr)
}

func TestNewFromConfigRequiresEndpoint(t *testing.T) {
	_, err := NewFromConfig(&config.Config{})
	assert.Error(t, err)

	a, err := NewFromConfig(&config.Config{
		MinIOEndpoint:        "localhost:9000",
		MinIOAccessKey:       "minio",
		MinIOSecretKey:       "minio123",
		MinIOBucketSnapshots: "collection-snapshots",
	})
	require.NoError(t, err)
	assert.Equal(t, "collection-snapshots", a.bucket)
}

func TestOpenDisabledReturnsNil(t *testing.T) {
	a, err := Open(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, a)
}
