package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
)

// MemRepo is an in-memory Repository and SeedTarget. It follows the same
// constraint rules as the PostgreSQL schema: uniqueness is enforced only
// while the indexes are declared, and Clear drops them.
//
// MemRepo is safe for concurrent use. It backs the API when DATABASE_URL is
// "memory" and is the store used throughout the tests.
type MemRepo struct {
	mu      sync.RWMutex
	rows    []creature.Record
	indexed bool
	now     func() time.Time
}

// Compile-time checks.
var (
	_ Repository = (*MemRepo)(nil)
	_ SeedTarget = (*MemRepo)(nil)
)

// NewMemRepo returns an empty store with its unique indexes declared.
func NewMemRepo() *MemRepo {
	return &MemRepo{indexed: true, now: func() time.Time { return time.Now().UTC() }}
}

// Indexed reports whether the unique indexes are currently declared.
func (m *MemRepo) Indexed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexed
}

func (m *MemRepo) indexOfID(id int) int {
	for i, r := range m.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (m *MemRepo) indexOfName(name string) int {
	name = creature.NormalizeName(name)
	for i, r := range m.rows {
		if creature.NormalizeName(r.Name) == name {
			return i
		}
	}
	return -1
}

func (m *MemRepo) List(_ context.Context) ([]creature.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]creature.Record, len(m.rows))
	copy(out, m.rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemRepo) GetByID(_ context.Context, id int) (creature.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOfID(id); i >= 0 {
		return m.rows[i], nil
	}
	return creature.Record{}, apperr.NotFound(creatureNotFoundMessage)
}

func (m *MemRepo) GetByName(_ context.Context, name string) (creature.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.indexOfName(name); i >= 0 {
		return m.rows[i], nil
	}
	return creature.Record{}, apperr.NotFound(creatureNotFoundMessage)
}

func (m *MemRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexOfName(name) >= 0, nil
}

func (m *MemRepo) Create(_ context.Context, rec creature.Record) (creature.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexed && (m.indexOfID(rec.ID) >= 0 || m.indexOfName(rec.Name) >= 0) {
		return creature.Record{}, apperr.Conflict(creatureDuplicateMessage).WithDetails(map[string]interface{}{
			"id":   rec.ID,
			"name": rec.Name,
		})
	}

	createdAt := m.now()
	rec.CreatedAt = &createdAt
	m.rows = append(m.rows, rec)
	return rec, nil
}

func (m *MemRepo) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfID(id)
	if i < 0 {
		return apperr.NotFound(creatureNotFoundMessage)
	}
	m.rows = append(m.rows[:i], m.rows[i+1:]...)
	return nil
}

func (m *MemRepo) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows), nil
}

func (m *MemRepo) Stats(ctx context.Context) (creature.Stats, error) {
	n, _ := m.Count(ctx)
	return creature.Stats{Total: n, Database: "memory", Collection: Table}, nil
}

func (m *MemRepo) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexed = false
	m.rows = nil
	return nil
}

func (m *MemRepo) BulkInsert(_ context.Context, records []creature.Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexed {
		for _, rec := range records {
			if m.indexOfID(rec.ID) >= 0 || m.indexOfName(rec.Name) >= 0 {
				return 0, apperr.Conflict(creatureDuplicateMessage)
			}
		}
	}

	createdAt := m.now()
	for _, rec := range records {
		rec.CreatedAt = &createdAt
		m.rows = append(m.rows, rec)
	}
	return len(records), nil
}

func (m *MemRepo) EnsureUniqueIndexes(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make(map[int]struct{}, len(m.rows))
	names := make(map[string]struct{}, len(m.rows))
	for _, r := range m.rows {
		name := creature.NormalizeName(r.Name)
		if _, dup := ids[r.ID]; dup {
			return apperr.Conflict("collection holds duplicate keys").WithDetails(map[string]interface{}{"id": r.ID})
		}
		if _, dup := names[name]; dup {
			return apperr.Conflict("collection holds duplicate keys").WithDetails(map[string]interface{}{"name": name})
		}
		ids[r.ID] = struct{}{}
		names[name] = struct{}{}
	}
	m.indexed = true
	return nil
}
