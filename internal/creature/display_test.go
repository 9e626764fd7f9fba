package creature

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWriteTableGolden(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []Record{
		{ID: 1, Name: "bulbasaur", Height: 7, Weight: 69, BaseExperience: 64},
		{ID: 25, Name: "pikachu", Height: 4, Weight: 60, BaseExperience: 112},
		{ID: 122, Name: "mr-mime", Height: 13, Weight: 545, BaseExperience: 161},
	})

	newGoldie(t).Assert(t, "table", buf.Bytes())
}

func TestWriteDetailGolden(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	var buf bytes.Buffer
	WriteDetail(&buf, Record{
		ID:             25,
		Name:           "pikachu",
		Height:         4,
		Weight:         60,
		BaseExperience: 112,
		Order:          35,
		CreatedAt:      &created,
	})

	newGoldie(t).Assert(t, "detail", buf.Bytes())
}
