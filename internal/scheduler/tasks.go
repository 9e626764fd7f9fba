package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCollectionReseed = "collection.reseed"

// ReseedPayload names the dataset file to load from the worker's dataset
// directory. Empty means the worker default.
type ReseedPayload struct {
	Dataset string `json:"dataset"`
}

func NewReseedTask(payload ReseedPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCollectionReseed, data), nil
}

func ParseReseedPayload(task *asynq.Task) (ReseedPayload, error) {
	var payload ReseedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ReseedPayload{}, err
	}
	return payload, nil
}
