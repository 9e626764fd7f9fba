// Package archive keeps JSON snapshots of the creature collection in object
// storage, written before every destructive reseed.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
	"creaturedex/platform/config"
)

const (
	keyPrefix   = "snapshots/"
	contentType = "application/json"
)

// Snapshot is the stored document.
type Snapshot struct {
	TakenAt time.Time         `json:"takenAt"`
	Count   int               `json:"count"`
	Records []creature.Record `json:"records"`
}

// Archiver writes and reads collection snapshots.
type Archiver struct {
	store  ObjectStore
	bucket string
	now    func() time.Time
}

// New creates an archiver over store.
func New(store ObjectStore, bucket string) *Archiver {
	return &Archiver{store: store, bucket: bucket, now: func() time.Time { return time.Now().UTC() }}
}

// NewFromConfig creates an archiver backed by MinIO.
func NewFromConfig(cfg config.ArchiveConfig) (*Archiver, error) {
	store, err := NewMinIOStore(cfg)
	if err != nil {
		return nil, err
	}
	return New(store, cfg.GetMinIOBucketSnapshots()), nil
}

// Open returns a ready archiver, or nil when archiving is not configured.
func Open(ctx context.Context, cfg config.ArchiveConfig) (*Archiver, error) {
	if !cfg.IsArchiveEnabled() {
		return nil, nil
	}
	a, err := NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := a.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// EnsureBucket creates the snapshot bucket when missing.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	return a.store.EnsureBucketExists(ctx, a.bucket)
}

// Snapshot stores records and returns the object key. Keys sort by the time
// they were taken.
func (a *Archiver) Snapshot(ctx context.Context, records []creature.Record) (string, error) {
	taken := a.now()
	raw, err := json.Marshal(Snapshot{TakenAt: taken, Count: len(records), Records: records})
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("%s%s-%s.json", keyPrefix, taken.Format("20060102T150405.000Z"), uuid.NewString()[:8])
	if err := a.store.PutObject(ctx, a.bucket, key, contentType, bytes.NewReader(raw), int64(len(raw))); err != nil {
		return "", err
	}
	return key, nil
}

// Load reads a snapshot back.
func (a *Archiver) Load(ctx context.Context, key string) ([]creature.Record, error) {
	obj, err := a.store.GetObject(ctx, a.bucket, key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	var snap Snapshot
	if err := json.NewDecoder(obj).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	records := make([]creature.Record, 0, len(snap.Records))
	for _, r := range snap.Records {
		r.CreatedAt = nil
		records = append(records, r.Normalized())
	}
	return records, nil
}

// Latest returns the key of the newest snapshot.
func (a *Archiver) Latest(ctx context.Context) (string, error) {
	keys, err := a.store.ListObjects(ctx, a.bucket, keyPrefix)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", apperr.NotFound("no snapshots stored")
	}
	sort.Strings(keys)
	return keys[len(keys)-1], nil
}
