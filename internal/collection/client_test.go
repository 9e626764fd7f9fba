package collection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"creaturedex/internal/creature"
	"creaturedex/internal/creatures"
	"creaturedex/internal/creatures/repository"
	apphttp "creaturedex/internal/http"
	"creaturedex/internal/http/router"
	"creaturedex/platform/apperr"
	"creaturedex/platform/config"
	"creaturedex/platform/logger"
	"creaturedex/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorageAPI(t *testing.T) (*Client, *repository.MemRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemRepo()
	engine := router.New(&apphttp.App{
		Config:  &config.Config{CORSAllowAll: true, RateLimitPerSecond: 1000, RateLimitBurst: 1000},
		Logger:  logger.Nop(),
		Modules: []apphttp.Module{creatures.NewModule(repo, nil, validator.New(), logger.Nop())},
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return New(&config.Config{StorageAPIURL: srv.URL + "/", StorageAPITimeout: 2 * time.Second}), repo
}

func TestRoundTripAgainstStorageAPI(t *testing.T) {
	client, _ := newStorageAPI(t)
	ctx := context.Background()

	require.NoError(t, client.Ping(ctx))

	exists, err := client.Exists(ctx, "pikachu")
	require.NoError(t, err)
	assert.False(t, exists)

	inserted, err := client.Insert(ctx, creature.Record{ID: 25, Name: "pikachu", Height: 4, Weight: 60, BaseExperience: 112})
	require.NoError(t, err)
	require.NotNil(t, inserted.CreatedAt)

	exists, err = client.Exists(ctx, "Pikachu")
	require.NoError(t, err)
	assert.True(t, exists)

	byName, err := client.FindByName(ctx, "pikachu")
	require.NoError(t, err)
	assert.Equal(t, 25, byName.ID)

	byID, err := client.FindByID(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, "pikachu", byID.Name)

	all, err := client.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	n, err := client.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "creatures", stats.Collection)

	require.NoError(t, client.Delete(ctx, 25))
	n, _ = client.Count(ctx)
	assert.Zero(t, n)
}

func TestErrorKindsFromStorageAPI(t *testing.T) {
	client, _ := newStorageAPI(t)
	ctx := context.Background()

	_, err := client.Insert(ctx, creature.Record{ID: 1, Name: "bulbasaur"})
	require.NoError(t, err)

	_, err = client.Insert(ctx, creature.Record{ID: 1, Name: "bulbasaur"})
	assert.Equal(t, apperr.KindConflict, apperr.GetKind(err))

	_, err = client.Insert(ctx, creature.Record{ID: -1, Name: "bad"})
	assert.Equal(t, apperr.KindValidation, apperr.GetKind(err))

	_, err = client.FindByID(ctx, 404)
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))

	_, err = client.FindByName(ctx, "missingno")
	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(err))

	assert.Equal(t, apperr.KindNotFound, apperr.GetKind(client.Delete(ctx, 404)))
}

func stubServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewWithHTTPClient(srv.URL, srv.Client())
}

func TestClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   apperr.Kind
	}{
		{"server error", http.StatusInternalServerError, `{"success": false, "error": "boom"}`, apperr.KindNetwork},
		{"bad gateway without body", http.StatusBadGateway, ``, apperr.KindNetwork},
		{"unexpected status", http.StatusTeapot, `{}`, apperr.KindNetwork},
		{"rejected with 200", http.StatusOK, `{"success": false, "error": "nope"}`, apperr.KindInternal},
		{"undecodable 200", http.StatusOK, `not json`, apperr.KindNetwork},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := stubServer(t, tc.status, tc.body)
			_, err := client.Exists(context.Background(), "eevee")
			assert.Equal(t, tc.kind, apperr.GetKind(err), "got %v", err)
		})
	}
}

func TestUnreachableIsNetworkError(t *testing.T) {
	client := NewWithHTTPClient("http://127.0.0.1:1", &http.Client{Timeout: time.Second})

	_, err := client.Exists(context.Background(), "eevee")
	assert.Equal(t, apperr.KindNetwork, apperr.GetKind(err))
	assert.Equal(t, apperr.KindNetwork, apperr.GetKind(client.Ping(context.Background())))
}
