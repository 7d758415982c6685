package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/blockpacks/internal/config"
	"github.com/annel0/blockpacks/internal/eventbus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, files map[string]string) *Service {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.Packs.Dir = dir
	cfg.Storage.Path = MemoryStoragePath

	s, err := NewService(cfg, prometheus.NewRegistry(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

const recipeBlock = `title: Bench
recipes:
  1:
    type: shapeless
    ingredients:
      - stick stick
`

func TestCompileStoresReportAndPublishes(t *testing.T) {
	s := newTestService(t, map[string]string{"Workshop/bench.yml": recipeBlock})

	stored := make(chan eventbus.ReportStored, 1)
	_, err := s.Bus().Subscribe(context.Background(), eventbus.Filter{Types: []string{eventbus.TypeReportStored}},
		func(ctx context.Context, ev *eventbus.Envelope) {
			var payload eventbus.ReportStored
			if ev.Decode(&payload) == nil {
				stored <- payload
			}
		})
	require.NoError(t, err)

	res, err := s.Compile(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Packs, 1)
	assert.Equal(t, 1, res.Report.Recipes)
	assert.Same(t, res, s.Result())

	latest, err := s.Store().Latest()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, res.Session, latest.Session)

	select {
	case ev := <-stored:
		assert.Equal(t, res.Session, ev.Session)
		assert.Equal(t, 1, ev.Packs)
	case <-time.After(2 * time.Second):
		t.Fatal("событие report_stored не получено")
	}

	w := httptest.NewRecorder()
	s.Server().Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/packs/workshop", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bench")
}

func TestRecompileDoesNotDuplicateRecipes(t *testing.T) {
	s := newTestService(t, map[string]string{"Workshop/bench.yml": recipeBlock})

	first, err := s.Compile(context.Background())
	require.NoError(t, err)
	second, err := s.Compile(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.Session, second.Session)
	assert.Empty(t, second.Report.Issues)

	sessions, err := s.Store().List()
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
}

func TestCompileMissingDirectory(t *testing.T) {
	s := newTestService(t, nil)
	s.cfg.Packs.Dir = filepath.Join(t.TempDir(), "нет")

	_, err := s.Compile(context.Background())
	assert.Error(t, err)
	assert.Nil(t, s.Result())
}
