package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/annel0/blockpacks/internal/pack"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	reports map[string]*pack.Report
	order   []string
}

func (f *fakeReports) Get(session string) (*pack.Report, error) { return f.reports[session], nil }
func (f *fakeReports) List() ([]string, error)                  { return f.order, nil }

func (f *fakeReports) Latest() (*pack.Report, error) {
	if len(f.order) == 0 {
		return nil, nil
	}
	return f.reports[f.order[len(f.order)-1]], nil
}

func newTestServer(t *testing.T, reports ReportSource) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	return NewServer(Config{Reports: reports, Registerer: reg, Gatherer: reg})
}

func compileFixture(t *testing.T) *pack.Result {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Deco/lamp.yml":  "title: Lamp\nlight:\n  emission: 15\n",
		"Deco/ghost.yml": "type: spirit\n",
		"Food/apple.yml": "type: food\ntitle: Apple\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	res, err := pack.NewCompiler(pack.Options{}).LoadDirectory(dir)
	require.NoError(t, err)
	return res
}

func get(t *testing.T, s *Server, path string, data interface{}) int {
	t.Helper()
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if data != nil && w.Code == http.StatusOK {
		resp := struct {
			Success bool            `json:"success"`
			Data    json.RawMessage `json:"data"`
		}{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		require.NoError(t, json.Unmarshal(resp.Data, data))
	}
	return w.Code
}

func TestHealthBeforeAndAfterCompile(t *testing.T) {
	s := newTestServer(t, nil)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "compiling")

	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/api/packs", nil))

	res := compileFixture(t)
	s.SetResult(res)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Contains(t, w.Body.String(), res.Session)
}

func TestListPacks(t *testing.T) {
	s := newTestServer(t, nil)
	s.SetResult(compileFixture(t))

	var data struct {
		Packs []pack.PackSummary `json:"packs"`
		Total int                `json:"total"`
	}
	require.Equal(t, http.StatusOK, get(t, s, "/api/packs", &data))
	assert.Equal(t, 2, data.Total)
	assert.Equal(t, "Deco", data.Packs[0].Name)
	assert.Equal(t, 1, data.Packs[0].Objects)
	assert.Equal(t, 1, data.Packs[0].Issues)
}

func TestPackObjectsCaseInsensitive(t *testing.T) {
	s := newTestServer(t, nil)
	s.SetResult(compileFixture(t))

	var view PackView
	require.Equal(t, http.StatusOK, get(t, s, "/api/packs/deco", &view))
	require.Len(t, view.Objects, 1)
	lamp := view.Objects[0]
	assert.Equal(t, "lamp", lamp.Identifier)
	assert.Equal(t, "Lamp", lamp.Title)
	assert.Equal(t, []string{"rotation", "light", "render", "break"}, lamp.Nodes)

	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/packs/Nope", nil))
}

func TestPackReportFromCurrentResult(t *testing.T) {
	s := newTestServer(t, nil)
	s.SetResult(compileFixture(t))

	var data struct {
		Issues []pack.Issue `json:"issues"`
	}
	require.Equal(t, http.StatusOK, get(t, s, "/api/packs/Deco/report", &data))
	require.Len(t, data.Issues, 1)
	assert.Equal(t, "ghost", data.Issues[0].Object)

	require.Equal(t, http.StatusOK, get(t, s, "/api/packs/Food/report", &data))
	assert.Empty(t, data.Issues)

	// Без хранилища отчёты по сессии недоступны
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/api/packs/Deco/report?session=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, s, "/api/reports", nil))
}

func TestStoredReports(t *testing.T) {
	old := &pack.Report{
		Session:   "old",
		StartedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Packs:     []pack.PackSummary{{Name: "Deco", Objects: 3, Issues: 1}},
		Issues:    []pack.Issue{{Pack: "Deco", Object: "stool", Kind: "parse", Message: "bad"}},
	}
	reports := &fakeReports{reports: map[string]*pack.Report{"old": old}, order: []string{"old"}}
	s := newTestServer(t, reports)

	var list struct {
		Sessions []string `json:"sessions"`
	}
	require.Equal(t, http.StatusOK, get(t, s, "/api/reports", &list))
	assert.Equal(t, []string{"old"}, list.Sessions)

	var report pack.Report
	require.Equal(t, http.StatusOK, get(t, s, "/api/reports/old", &report))
	assert.Equal(t, 3, report.Packs[0].Objects)
	assert.Equal(t, http.StatusNotFound, get(t, s, "/api/reports/missing", nil))

	// До компиляции отчёт пака берётся из последнего сохранённого
	var data struct {
		Session string       `json:"session"`
		Issues  []pack.Issue `json:"issues"`
	}
	require.Equal(t, http.StatusOK, get(t, s, "/api/packs/deco/report", &data))
	assert.Equal(t, "old", data.Session)
	require.Len(t, data.Issues, 1)
	assert.Equal(t, "stool", data.Issues[0].Object)
}

func TestStatsAndMetrics(t *testing.T) {
	s := newTestServer(t, nil)

	var stats map[string]interface{}
	require.Equal(t, http.StatusOK, get(t, s, "/api/stats", &stats))
	assert.Contains(t, stats, "uptime")
	assert.Contains(t, stats, "goroutines")

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "packs_api_http_request_duration_seconds")
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", formatUptime(5*time.Second))
	assert.Equal(t, "2м 5с", formatUptime(2*time.Minute+5*time.Second))
	assert.Equal(t, "1д 2ч 0м 0с", formatUptime(26*time.Hour))
}
