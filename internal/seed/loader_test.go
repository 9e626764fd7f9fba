package seed

import (
	"context"
	"errors"
	"testing"

	"creaturedex/internal/creature"
	"creaturedex/internal/creatures/repository"
	"creaturedex/platform/apperr"
	"creaturedex/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() []creature.Record {
	return []creature.Record{
		{ID: 1, Name: "bulbasaur", Height: 7, Weight: 69, BaseExperience: 64, Order: 1},
		{ID: 4, Name: "charmander", Height: 6, Weight: 85, BaseExperience: 62, Order: 5},
		{ID: 7, Name: "squirtle", Height: 5, Weight: 90, BaseExperience: 63, Order: 10},
	}
}

func TestSeedPopulatesAndIndexes(t *testing.T) {
	repo := repository.NewMemRepo()
	loader := NewLoader(repo, nil, logger.Nop())

	report, err := loader.Seed(context.Background(), sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, Report{Inserted: 3, Count: 3}, report)
	assert.True(t, repo.Indexed())
}

func TestSeedIsIdempotent(t *testing.T) {
	repo := repository.NewMemRepo()
	loader := NewLoader(repo, nil, logger.Nop())
	ctx := context.Background()

	_, err := loader.Seed(ctx, sampleDataset())
	require.NoError(t, err)
	first, _ := repo.List(ctx)

	_, err = loader.Seed(ctx, sampleDataset())
	require.NoError(t, err)
	second, _ := repo.List(ctx)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Name, second[i].Name)
	}
}

func TestSeedReplacesUserInsertedRecords(t *testing.T) {
	repo := repository.NewMemRepo()
	ctx := context.Background()
	_, err := repo.Create(ctx, creature.Record{ID: 25, Name: "pikachu"})
	require.NoError(t, err)

	_, err = NewLoader(repo, nil, logger.Nop()).Seed(ctx, sampleDataset())
	require.NoError(t, err)

	exists, _ := repo.ExistsByName(ctx, "pikachu")
	assert.False(t, exists)
}

func TestSeedDuplicateFailsAtConstraints(t *testing.T) {
	repo := repository.NewMemRepo()
	dataset := append(sampleDataset(), creature.Record{ID: 99, Name: "bulbasaur"})

	report, err := NewLoader(repo, nil, logger.Nop()).Seed(context.Background(), dataset)
	require.Error(t, err)

	var seedErr *Error
	require.ErrorAs(t, err, &seedErr)
	assert.Equal(t, StageConstraints, seedErr.Stage)
	assert.Equal(t, apperr.KindSeed, apperr.GetKind(err))
	assert.Equal(t, 4, report.Inserted)

	n, _ := repo.Count(context.Background())
	assert.Equal(t, 4, n, "rows stay inserted without constraints")
	assert.False(t, repo.Indexed())
}

type stubTarget struct {
	*repository.MemRepo
	clearErr error
	count    int
}

func (s *stubTarget) Clear(ctx context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	return s.MemRepo.Clear(ctx)
}

func (s *stubTarget) Count(context.Context) (int, error) {
	return s.count, nil
}

func TestSeedVerifyMismatch(t *testing.T) {
	target := &stubTarget{MemRepo: repository.NewMemRepo(), count: 2}

	report, err := NewLoader(target, nil, logger.Nop()).Seed(context.Background(), sampleDataset())
	var seedErr *Error
	require.ErrorAs(t, err, &seedErr)
	assert.Equal(t, StageVerify, seedErr.Stage)
	assert.Equal(t, Report{Inserted: 3, Count: 2}, report)
	assert.Equal(t, report, seedErr.Report)
}

func TestSeedDropFailureStopsEarly(t *testing.T) {
	cause := errors.New("permission denied")
	target := &stubTarget{MemRepo: repository.NewMemRepo(), clearErr: cause}

	_, err := NewLoader(target, nil, logger.Nop()).Seed(context.Background(), sampleDataset())
	var seedErr *Error
	require.ErrorAs(t, err, &seedErr)
	assert.Equal(t, StageDrop, seedErr.Stage)
	assert.ErrorIs(t, err, cause)
}

type fakeArchiver struct {
	got []creature.Record
	err error
}

func (f *fakeArchiver) Snapshot(_ context.Context, records []creature.Record) (string, error) {
	f.got = records
	if f.err != nil {
		return "", f.err
	}
	return "snapshots/test.json", nil
}

func TestSeedSnapshotsBeforeClearing(t *testing.T) {
	repo := repository.NewMemRepo()
	ctx := context.Background()
	_, _ = repo.Create(ctx, creature.Record{ID: 25, Name: "pikachu"})
	archiver := &fakeArchiver{}

	report, err := NewLoader(repo, archiver, logger.Nop()).Seed(ctx, sampleDataset())
	require.NoError(t, err)
	assert.Equal(t, "snapshots/test.json", report.Snapshot)
	require.Len(t, archiver.got, 1)
	assert.Equal(t, "pikachu", archiver.got[0].Name)
}

func TestSeedSnapshotFailureKeepsCollection(t *testing.T) {
	repo := repository.NewMemRepo()
	ctx := context.Background()
	_, _ = repo.Create(ctx, creature.Record{ID: 25, Name: "pikachu"})

	_, err := NewLoader(repo, &fakeArchiver{err: errors.New("bucket missing")}, logger.Nop()).Seed(ctx, sampleDataset())
	var seedErr *Error
	require.ErrorAs(t, err, &seedErr)
	assert.Equal(t, StageArchive, seedErr.Stage)

	exists, _ := repo.ExistsByName(ctx, "pikachu")
	assert.True(t, exists)
}
