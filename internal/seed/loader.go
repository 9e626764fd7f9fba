package seed

import (
	"context"
	"fmt"

	"creaturedex/internal/creature"
	"creaturedex/internal/creatures/repository"
	"creaturedex/platform/apperr"
	"creaturedex/platform/logger"
)

// Stage names the step of a seed run that failed.
type Stage string

const (
	StageArchive     Stage = "archive"
	StageDrop        Stage = "drop"
	StageInsert      Stage = "insert"
	StageConstraints Stage = "constraints"
	StageVerify      Stage = "verify"
)

// Report describes a seed run.
type Report struct {
	Inserted int
	Count    int
	// Snapshot is the archive object key of the pre-seed collection, if one
	// was written.
	Snapshot string
}

// Error is returned by Seed. Err always carries apperr.KindSeed.
type Error struct {
	Stage  Stage
	Report Report
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("seed %s: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func stageError(stage Stage, report Report, message string, cause error) *Error {
	return &Error{
		Stage:  stage,
		Report: report,
		Err:    apperr.Wrap(apperr.KindSeed, message, cause).WithOp("seed." + string(stage)),
	}
}

// Archiver stores a copy of the collection before it is destroyed.
type Archiver interface {
	Snapshot(ctx context.Context, records []creature.Record) (key string, err error)
}

// Loader (re)populates a SeedTarget.
type Loader struct {
	target   repository.SeedTarget
	archiver Archiver
	log      *logger.Logger
}

// NewLoader creates a loader. archiver may be nil.
func NewLoader(target repository.SeedTarget, archiver Archiver, log *logger.Logger) *Loader {
	return &Loader{target: target, archiver: archiver, log: log}
}

// Seed replaces the whole collection with dataset and declares the unique
// indexes afterwards. Running it twice with the same dataset leaves the
// same state.
//
// The existing collection is truncated unconditionally. When an archiver is
// set, a failed snapshot aborts the run before anything is removed.
func (l *Loader) Seed(ctx context.Context, dataset []creature.Record) (Report, error) {
	var report Report

	if l.archiver != nil {
		key, err := l.snapshot(ctx)
		if err != nil {
			l.log.SeedEvent(string(StageArchive), 0, err)
			return report, stageError(StageArchive, report, "snapshot before reseed failed", err)
		}
		report.Snapshot = key
		if key != "" {
			l.log.Info("collection snapshot stored", "key", key)
		}
	}

	if err := l.target.Clear(ctx); err != nil {
		l.log.SeedEvent(string(StageDrop), 0, err)
		return report, stageError(StageDrop, report, "clear collection failed", err)
	}
	l.log.SeedEvent(string(StageDrop), 0, nil)

	inserted, err := l.target.BulkInsert(ctx, dataset)
	if err != nil {
		l.log.SeedEvent(string(StageInsert), 0, err)
		return report, stageError(StageInsert, report, "bulk insert failed", err)
	}
	report.Inserted = inserted
	l.log.SeedEvent(string(StageInsert), inserted, nil)

	if err := l.target.EnsureUniqueIndexes(ctx); err != nil {
		l.log.SeedEvent(string(StageConstraints), inserted, err)
		return report, stageError(StageConstraints, report, "declare unique indexes failed", err)
	}
	l.log.SeedEvent(string(StageConstraints), inserted, nil)

	count, err := l.target.Count(ctx)
	if err != nil {
		l.log.SeedEvent(string(StageVerify), 0, err)
		return report, stageError(StageVerify, report, "count after seed failed", err)
	}
	report.Count = count
	if count != len(dataset) {
		mismatch := fmt.Errorf("collection holds %d records, dataset has %d", count, len(dataset))
		l.log.SeedEvent(string(StageVerify), count, mismatch)
		return report, stageError(StageVerify, report, "record count mismatch", mismatch)
	}
	l.log.SeedEvent(string(StageVerify), count, nil)

	return report, nil
}

func (l *Loader) snapshot(ctx context.Context) (string, error) {
	current, err := l.target.List(ctx)
	if err != nil {
		return "", err
	}
	if len(current) == 0 {
		return "", nil
	}
	return l.archiver.Snapshot(ctx, current)
}
