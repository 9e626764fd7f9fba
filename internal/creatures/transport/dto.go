// Package transport holds the wire types of the storage API. The server
// writes them and the collection client decodes them.
package transport

import "creaturedex/internal/creature"

// CreateCreatureRequest is the insert payload.
type CreateCreatureRequest struct {
	ID             int    `json:"id" validate:"gt=0"`
	Name           string `json:"name" validate:"required,max=100"`
	Height         int    `json:"height" validate:"min=0"`
	Weight         int    `json:"weight" validate:"min=0"`
	BaseExperience int    `json:"base_experience" validate:"min=0"`
	Order          int    `json:"order" validate:"min=0"`
}

// ToRecord converts the payload into a normalized record.
func (r CreateCreatureRequest) ToRecord() creature.Record {
	return creature.Record{
		ID:             r.ID,
		Name:           r.Name,
		Height:         r.Height,
		Weight:         r.Weight,
		BaseExperience: r.BaseExperience,
		Order:          r.Order,
	}.Normalized()
}

// FromRecord builds an insert payload for rec.
func FromRecord(rec creature.Record) CreateCreatureRequest {
	return CreateCreatureRequest{
		ID:             rec.ID,
		Name:           rec.Name,
		Height:         rec.Height,
		Weight:         rec.Weight,
		BaseExperience: rec.BaseExperience,
		Order:          rec.Order,
	}
}

// CreatureResponse wraps a single record.
type CreatureResponse struct {
	Success bool             `json:"success"`
	Data    *creature.Record `json:"data,omitempty"`
	Message string           `json:"message,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// CreatureListResponse wraps the full collection.
type CreatureListResponse struct {
	Success bool              `json:"success"`
	Data    []creature.Record `json:"data"`
	Total   int               `json:"total"`
	Error   string            `json:"error,omitempty"`
}

// ExistsResponse answers an ownership check.
type ExistsResponse struct {
	Success bool   `json:"success"`
	Exists  bool   `json:"exists"`
	Error   string `json:"error,omitempty"`
}

// StatsResponse wraps collection statistics.
type StatsResponse struct {
	Success bool            `json:"success"`
	Stats   *creature.Stats `json:"stats,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// MessageResponse carries a bare outcome, used by delete and health.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ReseedRequest optionally names a dataset file for an admin reseed. The
// name is resolved in the directory of the configured default dataset.
type ReseedRequest struct {
	Dataset string `json:"dataset" validate:"omitempty,max=128"`
}

// ReseedResponse acknowledges a queued reseed.
type ReseedResponse struct {
	Success bool   `json:"success"`
	TaskID  string `json:"taskId"`
	Queue   string `json:"queue"`
}
