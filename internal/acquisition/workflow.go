// Package acquisition runs draws: pick a creature from the catalog and add
// it to the collection unless it is already owned.
package acquisition

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"creaturedex/internal/creature"
	"creaturedex/platform/apperr"
	"creaturedex/platform/logger"
)

// Catalog lists and resolves creatures.
type Catalog interface {
	ListCandidates(ctx context.Context) ([]creature.Candidate, error)
	ResolveDetail(ctx context.Context, candidate creature.Candidate) (creature.Record, error)
}

// Store is the part of the collection a draw touches.
type Store interface {
	Exists(ctx context.Context, name string) (bool, error)
	FindByName(ctx context.Context, name string) (creature.Record, error)
	Insert(ctx context.Context, rec creature.Record) (creature.Record, error)
}

// State is a step of a draw.
type State string

const (
	StateStart            State = "start"
	StateListingFetched   State = "listing_fetched"
	StateCandidateChosen  State = "candidate_chosen"
	StateOwnershipChecked State = "ownership_checked"
	StateAlreadyOwned     State = "already_owned"
	StateDetailFetched    State = "detail_fetched"
	StateInserted         State = "inserted"
	StateInsertFailed     State = "insert_failed"
	StateDone             State = "done"
)

// Outcome is how a draw ended.
type Outcome string

const (
	OutcomeInserted     Outcome = "inserted"
	OutcomeAlreadyOwned Outcome = "already_owned"
	OutcomeFailed       Outcome = "failed"
)

// ErrEmptyListing is the failure of a draw whose catalog page had no entries.
var ErrEmptyListing = errors.New("catalog listing is empty")

// Result describes one draw. Record is the stored record when known: the
// inserted one, or the owned one when the display lookup succeeded.
type Result struct {
	Outcome   Outcome
	Trace     []State
	Candidate creature.Candidate
	Record    *creature.Record
	Err       error
}

// Workflow orchestrates draws. Instances share nothing but their
// collaborators, so concurrent draws are safe; the store's unique keys
// decide races.
type Workflow struct {
	catalog Catalog
	store   Store
	picker  *Picker
	log     *logger.Logger
}

// New creates a workflow. picker may be nil.
func New(catalog Catalog, store Store, picker *Picker, log *logger.Logger) *Workflow {
	if picker == nil {
		picker = NewPicker(nil)
	}
	return &Workflow{catalog: catalog, store: store, picker: picker, log: log}
}

type draw struct {
	Result
}

func (d *draw) step(s State) {
	d.Trace = append(d.Trace, s)
}

func (d *draw) finish(outcome Outcome, err error) Result {
	d.Outcome = outcome
	d.Err = err
	d.step(StateDone)
	return d.Result
}

// Draw runs one acquisition. It never retries; failures are reported in
// the result.
func (w *Workflow) Draw(ctx context.Context) Result {
	res := w.draw(ctx)
	w.log.WithContext(ctx).DrawOutcome(res.Candidate.Name, string(res.Outcome), res.Err)
	return res
}

func (w *Workflow) draw(ctx context.Context) Result {
	d := &draw{}
	d.step(StateStart)

	candidates, err := w.catalog.ListCandidates(ctx)
	if err != nil {
		return d.finish(OutcomeFailed, err)
	}
	if len(candidates) == 0 {
		return d.finish(OutcomeFailed, ErrEmptyListing)
	}
	d.step(StateListingFetched)

	d.Candidate = w.picker.Pick(candidates)
	d.step(StateCandidateChosen)

	owned, err := w.store.Exists(ctx, d.Candidate.Name)
	if err != nil {
		return d.finish(OutcomeFailed, err)
	}
	d.step(StateOwnershipChecked)

	if owned {
		d.step(StateAlreadyOwned)
		d.Record = w.lookupOwned(ctx, d.Candidate.Name)
		return d.finish(OutcomeAlreadyOwned, nil)
	}

	detail, err := w.catalog.ResolveDetail(ctx, d.Candidate)
	if err != nil {
		return d.finish(OutcomeFailed, err)
	}
	d.step(StateDetailFetched)

	stored, err := w.store.Insert(ctx, detail)
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			// A concurrent draw stored it between the check and the insert.
			d.step(StateAlreadyOwned)
			d.Record = w.lookupOwned(ctx, detail.Name)
			return d.finish(OutcomeAlreadyOwned, nil)
		}
		d.step(StateInsertFailed)
		return d.finish(OutcomeFailed, err)
	}

	d.step(StateInserted)
	d.Record = &stored
	return d.finish(OutcomeInserted, nil)
}

// lookupOwned fetches the stored record for display. A failure only costs
// the display.
func (w *Workflow) lookupOwned(ctx context.Context, name string) *creature.Record {
	rec, err := w.store.FindByName(ctx, name)
	if err != nil {
		w.log.WithContext(ctx).Warn("owned creature lookup failed", "name", name, "error", err)
		return nil
	}
	return &rec
}

// DrawMany runs n independent draws with at most parallelism in flight and
// returns their results in start order.
func (w *Workflow) DrawMany(ctx context.Context, n, parallelism int) []Result {
	if n <= 0 {
		return nil
	}
	if parallelism < 1 {
		parallelism = 1
	}

	results := make([]Result, n)
	var g errgroup.Group
	g.SetLimit(parallelism)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			results[i] = w.Draw(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
