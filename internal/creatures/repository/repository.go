package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
)

const (
	creatureNotFoundMessage  = "creature not found"
	creatureDuplicateMessage = "creature already in collection"
	uniqueViolation          = "23505"
	selectColumns            = "id, name, height, weight, base_experience, sort_order, created_at"
)

const (
	getByNameQuery    = `SELECT ` + selectColumns + ` FROM creatures WHERE lower(name) = lower($1) LIMIT 1`
	existsByNameQuery = `SELECT EXISTS(SELECT 1 FROM creatures WHERE lower(name) = lower($1))`
)

// Seed statements run in order: both indexes drop before the truncate.
var (
	clearStatements = []string{
		`DROP INDEX IF EXISTS ` + IDIndex,
		`DROP INDEX IF EXISTS ` + NameIndex,
		`TRUNCATE ` + Table,
	}
	uniqueIndexStatements = []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + IDIndex + ` ON ` + Table + ` (id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ` + NameIndex + ` ON ` + Table + ` (lower(name))`,
	}
	copyColumns = []string{"id", "name", "height", "weight", "base_experience", "sort_order"}
)

// Repo implements the creature repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new creature repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time checks.
var (
	_ Repository = (*Repo)(nil)
	_ SeedTarget = (*Repo)(nil)
)

func scanRecord(row pgx.Row) (creature.Record, error) {
	var rec creature.Record
	var createdAt time.Time
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Height, &rec.Weight, &rec.BaseExperience, &rec.Order, &createdAt); err != nil {
		return creature.Record{}, err
	}
	rec.CreatedAt = &createdAt
	return rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// List returns every record ordered by id.
func (r *Repo) List(ctx context.Context) ([]creature.Record, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM creatures ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list creatures: %w", err)
	}
	defer rows.Close()

	items := make([]creature.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan creature: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creatures: %w", err)
	}
	return items, nil
}

// GetByID fetches one record by id.
func (r *Repo) GetByID(ctx context.Context, id int) (creature.Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM creatures WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return creature.Record{}, apperr.NotFound(creatureNotFoundMessage)
		}
		return creature.Record{}, fmt.Errorf("get creature by id: %w", err)
	}
	return rec, nil
}

// GetByName fetches one record by name, ignoring case.
func (r *Repo) GetByName(ctx context.Context, name string) (creature.Record, error) {
	rec, err := scanRecord(r.pool.QueryRow(ctx, getByNameQuery, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return creature.Record{}, apperr.NotFound(creatureNotFoundMessage)
		}
		return creature.Record{}, fmt.Errorf("get creature by name: %w", err)
	}
	return rec, nil
}

// ExistsByName reports whether a record with the name is stored.
func (r *Repo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, existsByNameQuery, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check creature exists: %w", err)
	}
	return exists, nil
}

// Create inserts a record. The database assigns created_at.
func (r *Repo) Create(ctx context.Context, rec creature.Record) (creature.Record, error) {
	query := `
		INSERT INTO creatures (id, name, height, weight, base_experience, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + selectColumns

	created, err := scanRecord(r.pool.QueryRow(ctx, query,
		rec.ID, rec.Name, rec.Height, rec.Weight, rec.BaseExperience, rec.Order))
	if err != nil {
		if isUniqueViolation(err) {
			return creature.Record{}, apperr.Conflict(creatureDuplicateMessage).WithDetails(map[string]interface{}{
				"id":   rec.ID,
				"name": rec.Name,
			})
		}
		return creature.Record{}, fmt.Errorf("create creature: %w", err)
	}
	return created, nil
}

// Delete removes a record by id.
func (r *Repo) Delete(ctx context.Context, id int) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM creatures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete creature: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(creatureNotFoundMessage)
	}
	return nil
}

// Count returns the number of stored records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM creatures`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count creatures: %w", err)
	}
	return n, nil
}

// Stats reports the record count and where the collection lives.
func (r *Repo) Stats(ctx context.Context) (creature.Stats, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return creature.Stats{}, err
	}
	return creature.Stats{
		Total:      n,
		Database:   r.pool.Config().ConnConfig.Database,
		Collection: Table,
	}, nil
}

// Clear drops both unique indexes and truncates the collection.
func (r *Repo) Clear(ctx context.Context) error {
	for _, stmt := range clearStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("clear creatures: %w", err)
		}
	}
	return nil
}

// BulkInsert loads records in one COPY. created_at takes its column default.
func (r *Repo) BulkInsert(ctx context.Context, records []creature.Record) (int, error) {
	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []any{rec.ID, rec.Name, rec.Height, rec.Weight, rec.BaseExperience, rec.Order})
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{Table},
		copyColumns,
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("bulk insert creatures: %w", err)
	}
	return int(n), nil
}

// EnsureUniqueIndexes declares the id and case-insensitive name indexes.
func (r *Repo) EnsureUniqueIndexes(ctx context.Context) error {
	for _, stmt := range uniqueIndexStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return indexError(err)
		}
	}
	return nil
}

func indexError(err error) error {
	if isUniqueViolation(err) {
		return apperr.Wrap(apperr.KindConflict, "collection holds duplicate keys", err)
	}
	return fmt.Errorf("create unique index: %w", err)
}
