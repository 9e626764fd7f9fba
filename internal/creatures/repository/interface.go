package repository

import (
	"context"

	"creaturedex/internal/creature"
)

// Table is the collection every creature record lives in.
const Table = "creatures"

// Index names, shared by the migration and the seed loader.
const (
	IDIndex   = "creatures_id_key"
	NameIndex = "creatures_name_key"
)

// Repository defines the data access interface for the creature collection.
// Names reaching the repository are already normalized.
type Repository interface {
	List(ctx context.Context) ([]creature.Record, error)
	GetByID(ctx context.Context, id int) (creature.Record, error)
	GetByName(ctx context.Context, name string) (creature.Record, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	// Create inserts a record and returns it with the store-assigned
	// created_at. A unique-key violation is an apperr.Conflict.
	Create(ctx context.Context, rec creature.Record) (creature.Record, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
	Stats(ctx context.Context) (creature.Stats, error)
}

// SeedTarget is the part of the store the seed loader drives. Clear drops the
// unique indexes and empties the collection; EnsureUniqueIndexes declares
// them again and fails with apperr.Conflict when the data holds duplicates.
type SeedTarget interface {
	List(ctx context.Context) ([]creature.Record, error)
	Clear(ctx context.Context) error
	BulkInsert(ctx context.Context, records []creature.Record) (int, error)
	EnsureUniqueIndexes(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}
