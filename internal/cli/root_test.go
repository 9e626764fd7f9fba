package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"creaturedex/internal/creature"
	"creaturedex/internal/creatures"
	"creaturedex/internal/creatures/repository"
	apphttp "creaturedex/internal/http"
	"creaturedex/internal/http/router"
	"creaturedex/platform/config"
	"creaturedex/platform/logger"
	"creaturedex/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	cfg         *config.Config
	repo        *repository.MemRepo
	catalogDown atomic.Bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := &fixture{repo: repository.NewMemRepo()}

	api := httptest.NewServer(router.New(&apphttp.App{
		Config:  &config.Config{CORSAllowAll: true, RateLimitPerSecond: 1000, RateLimitBurst: 1000},
		Logger:  logger.Nop(),
		Modules: []apphttp.Module{creatures.NewModule(f.repo, nil, validator.New(), logger.Nop())},
	}))
	t.Cleanup(api.Close)

	var catalog *httptest.Server
	catalog = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.catalogDown.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.URL.Path == "/pokemon/" {
			fmt.Fprintf(w, `{"count":1,"results":[{"name":"pikachu","url":"%s/pokemon/25/"}]}`, catalog.URL)
			return
		}
		fmt.Fprint(w, `{"id":25,"name":"pikachu","height":4,"weight":60,"base_experience":112,"order":35}`)
	}))
	t.Cleanup(catalog.Close)

	f.cfg = &config.Config{
		StorageAPIURL:     api.URL,
		StorageAPITimeout: 2 * time.Second,
		CatalogBaseURL:    catalog.URL + "/",
		CatalogPageSize:   20,
		CatalogTimeout:    2 * time.Second,
	}
	return f
}

func (f *fixture) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(f.cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func (f *fixture) collect(t *testing.T, rec creature.Record) {
	t.Helper()
	_, err := f.repo.Create(context.Background(), rec)
	require.NoError(t, err)
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := NewRootCommand(&config.Config{StorageAPIURL: "http://api", CatalogBaseURL: "http://catalog/"})

	for _, name := range []string{"draw", "list", "search", "get", "delete", "stats", "play"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, "command %s", name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestRootCommand_FlagDefaultsFromConfig(t *testing.T) {
	cmd := NewRootCommand(&config.Config{StorageAPIURL: "http://api:8080", CatalogBaseURL: "http://catalog/"})

	apiURL := cmd.PersistentFlags().Lookup("api-url")
	require.NotNil(t, apiURL)
	assert.Equal(t, "http://api:8080", apiURL.DefValue)

	catalogURL := cmd.PersistentFlags().Lookup("catalog-url")
	require.NotNil(t, catalogURL)
	assert.Equal(t, "http://catalog/", catalogURL.DefValue)

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestRootCommand_RejectsEmptyAPIURL(t *testing.T) {
	f := newFixture(t)
	_, err := f.run(t, "", "list", "--api-url", "")
	assert.Error(t, err)
}

func TestDraw_AddsThenReportsOwned(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "draw")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected: Pikachu")
	assert.Contains(t, out, "Pikachu has been added to your collection!")
	assert.Contains(t, out, "Order: 35")

	out, err = f.run(t, "", "draw")
	require.NoError(t, err)
	assert.Contains(t, out, "Pikachu is already in your collection!")

	n, _ := f.repo.Count(context.Background())
	assert.Equal(t, 1, n)
}

func TestDraw_ManyInsertsOnce(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "draw", "--count", "5", "--parallel", "5")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "has been added"))
	assert.Equal(t, 4, strings.Count(out, "already in your collection"))
}

func TestDraw_FailureIsReported(t *testing.T) {
	f := newFixture(t)
	f.catalogDown.Store(true)

	out, err := f.run(t, "", "draw")
	require.Error(t, err)
	assert.Contains(t, out, "Draw failed")

	_, err = f.run(t, "", "draw", "--count", "0")
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Your collection is empty!")

	f.collect(t, creature.Record{ID: 1, Name: "bulbasaur", Height: 7, Weight: 69, BaseExperience: 64})
	f.collect(t, creature.Record{ID: 122, Name: "mr-mime"})

	out, err = f.run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total creatures: 2")
	assert.Contains(t, out, "Bulbasaur")
	assert.Contains(t, out, "Mr Mime")
}

func TestSearchAndGet(t *testing.T) {
	f := newFixture(t)
	f.collect(t, creature.Record{ID: 4, Name: "charmander"})

	out, err := f.run(t, "", "search", "  CHARMANDER ")
	require.NoError(t, err)
	assert.Contains(t, out, "Found Charmander!")

	out, err = f.run(t, "", "search", "squirtle")
	require.NoError(t, err)
	assert.Contains(t, out, "Squirtle is not in your collection")

	out, err = f.run(t, "", "get", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Charmander")

	out, err = f.run(t, "", "get", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "No creature with id 7")

	_, err = f.run(t, "", "get", "abc")
	assert.Error(t, err)
	_, err = f.run(t, "", "get", "-3")
	assert.Error(t, err)
}

func TestDelete_ConfirmationPrompt(t *testing.T) {
	f := newFixture(t)
	f.collect(t, creature.Record{ID: 7, Name: "squirtle"})
	ctx := context.Background()

	out, err := f.run(t, "n\n", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "You are about to delete: Squirtle (ID: 7)")
	assert.Contains(t, out, "Deletion cancelled")
	exists, _ := f.repo.ExistsByName(ctx, "squirtle")
	assert.True(t, exists)

	out, err = f.run(t, "Y\n", "delete", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Squirtle has been deleted from your collection")
	exists, _ = f.repo.ExistsByName(ctx, "squirtle")
	assert.False(t, exists)
}

func TestDelete_YesSkipsPrompt(t *testing.T) {
	f := newFixture(t)
	f.collect(t, creature.Record{ID: 7, Name: "squirtle"})

	out, err := f.run(t, "", "delete", "7", "--yes")
	require.NoError(t, err)
	assert.NotContains(t, out, "Are you sure?")
	assert.Contains(t, out, "has been deleted")

	out, err = f.run(t, "", "delete", "7", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "No creature with id 7")
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.collect(t, creature.Record{ID: 1, Name: "bulbasaur"})

	out, err := f.run(t, "", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total creatures collected: 1")
	assert.Contains(t, out, "Database: memory")
	assert.Contains(t, out, "Collection: creatures")
}

func TestStats_StorageDown(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, "", "stats", "--api-url", "http://127.0.0.1:1")
	assert.Error(t, err)
}

func TestPlay_Menu(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "1\n2\n9\n3\npikachu\n4\nxyz\n6\n7\n", "play")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome to Creaturedex!")
	assert.Contains(t, out, "Pikachu has been added to your collection!")
	assert.Contains(t, out, "Total creatures: 1")
	assert.Contains(t, out, "Invalid choice. Please try again.")
	assert.Contains(t, out, "Found Pikachu!")
	assert.Contains(t, out, "Error: invalid id")
	assert.Contains(t, out, "Total creatures collected: 1")
	assert.Contains(t, out, "Thanks for playing! Goodbye!")
}

func TestPlay_DeleteAndEndOfInput(t *testing.T) {
	f := newFixture(t)
	f.collect(t, creature.Record{ID: 25, Name: "pikachu"})

	out, err := f.run(t, "5\n25\ny\n", "play")
	require.NoError(t, err)
	assert.Contains(t, out, "Pikachu has been deleted from your collection")
	assert.NotContains(t, out, "Goodbye")

	n, _ := f.repo.Count(context.Background())
	assert.Equal(t, 0, n)
}
