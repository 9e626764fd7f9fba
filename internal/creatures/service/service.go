package service

import (
	"context"
	"strings"

	"creaturedex/internal/creature"
	"creaturedex/internal/creatures/repository"
	"creaturedex/internal/creatures/transport"
	"creaturedex/internal/seed"
	"creaturedex/platform/apperr"
	"creaturedex/platform/logger"
)

// ReseedScheduler queues a background reseed of the collection.
type ReseedScheduler interface {
	EnqueueReseed(ctx context.Context, dataset string) (taskID, queue string, err error)
}

// Service provides business logic for the creature collection.
type Service struct {
	repo      repository.Repository
	scheduler ReseedScheduler
	log       *logger.Logger
}

// New creates a new creature service. scheduler may be nil, in which case
// reseed requests are refused as unavailable.
func New(repo repository.Repository, scheduler ReseedScheduler, log *logger.Logger) *Service {
	return &Service{repo: repo, scheduler: scheduler, log: log}
}

// List returns the whole collection.
func (s *Service) List(ctx context.Context) ([]creature.Record, error) {
	return s.repo.List(ctx)
}

// GetByID fetches one record.
func (s *Service) GetByID(ctx context.Context, id int) (creature.Record, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName fetches one record by case-insensitive name.
func (s *Service) GetByName(ctx context.Context, name string) (creature.Record, error) {
	name = creature.NormalizeName(name)
	if name == "" {
		return creature.Record{}, apperr.Validation("name is required")
	}
	return s.repo.GetByName(ctx, name)
}

// Exists reports whether name is already collected.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	name = creature.NormalizeName(name)
	if name == "" {
		return false, apperr.Validation("name is required")
	}
	return s.repo.ExistsByName(ctx, name)
}

// Create inserts a validated payload.
func (s *Service) Create(ctx context.Context, req transport.CreateCreatureRequest) (creature.Record, error) {
	rec := req.ToRecord()
	if rec.Name == "" {
		return creature.Record{}, apperr.Validation("name is required")
	}

	created, err := s.repo.Create(ctx, rec)
	if err != nil {
		return creature.Record{}, err
	}

	s.log.WithContext(ctx).Info("creature collected", "id", created.ID, "name", created.Name)
	return created, nil
}

// Delete removes a record by id.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithContext(ctx).Info("creature released", "id", id)
	return nil
}

// Stats summarizes the collection.
func (s *Service) Stats(ctx context.Context) (creature.Stats, error) {
	return s.repo.Stats(ctx)
}

// RequestReseed queues a reseed from the named dataset file, or from the
// worker's default dataset when empty.
func (s *Service) RequestReseed(ctx context.Context, dataset string) (transport.ReseedResponse, error) {
	dataset = strings.TrimSpace(dataset)
	if dataset != "" {
		if err := seed.CheckDatasetName(dataset); err != nil {
			return transport.ReseedResponse{}, err
		}
	}
	if s.scheduler == nil {
		return transport.ReseedResponse{}, apperr.Unavailable("reseed scheduling is not configured", nil)
	}

	taskID, queue, err := s.scheduler.EnqueueReseed(ctx, dataset)
	if err != nil {
		if apperr.GetKind(err) != apperr.KindUnknown {
			return transport.ReseedResponse{}, err
		}
		return transport.ReseedResponse{}, apperr.Unavailable("failed to queue reseed", err)
	}

	s.log.WithContext(ctx).Info("reseed queued", "taskId", taskID, "queue", queue)
	return transport.ReseedResponse{Success: true, TaskID: taskID, Queue: queue}, nil
}
