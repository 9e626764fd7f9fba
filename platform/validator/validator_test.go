package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     int    `json:"id" validate:"gt=0"`
	Name   string `json:"name" validate:"required"`
	Height int    `json:"height" validate:"min=0"`
}

func TestFieldsUsesJSONNames(t *testing.T) {
	err := New().Struct(sample{ID: 0, Name: "", Height: -1})
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"id":     "gt=0",
		"name":   "required",
		"height": "min=0",
	}, Fields(err))
}

func TestFieldsIgnoresForeignErrors(t *testing.T) {
	assert.Nil(t, Fields(errors.New("nope")))
	assert.NoError(t, New().Struct(sample{ID: 1, Name: "eevee"}))
}
