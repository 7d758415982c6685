package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/annel0/blockpacks/internal/logging"
	"github.com/annel0/blockpacks/internal/middleware"
	"github.com/annel0/blockpacks/internal/pack"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// ReportSource хранилище отчётов компиляции
type ReportSource interface {
	Get(session string) (*pack.Report, error)
	Latest() (*pack.Report, error)
	List() ([]string, error)
}

// Server REST API только для чтения: паки, объекты и отчёты компиляции
type Server struct {
	router  *gin.Engine
	addr    string
	reports ReportSource
	metrics *ServerMetrics
	logger  *logging.Logger

	mu     sync.RWMutex
	result *pack.Result

	httpServer *http.Server
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Addr    string       // адрес для запуска сервера
	Reports ReportSource // может быть nil
	Logger  *logging.Logger

	// Registerer и Gatherer для HTTP-метрик и /metrics. По умолчанию глобальный регистр.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	// Tracing включает otelgin
	Tracing bool
	Service string
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ObjectView объект пака в ответах API
type ObjectView struct {
	Identifier   string   `json:"identifier"`
	RegistryName string   `json:"registry_name"`
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Texture      string   `json:"texture,omitempty"`
	Model        string   `json:"model,omitempty"`
	CreativeTab  string   `json:"creative_tab,omitempty"`
	Nodes        []string `json:"nodes"`
}

// PackView пак с объектами
type PackView struct {
	Summary pack.PackSummary `json:"summary"`
	Objects []ObjectView     `json:"objects"`
}

// NewServer создаёт сервер. Маршруты регистрируются сразу.
func NewServer(config Config) *Server {
	if config.Addr == "" {
		config.Addr = ":8090"
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}
	if config.Service == "" {
		config.Service = "blockpacks"
	}

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	if config.Tracing {
		router.Use(otelgin.Middleware(config.Service))
	}
	router.Use(middleware.NewRequestLogger(config.Logger).Handler())

	promMw := middleware.NewPrometheusMiddleware("packs_api", config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	s := &Server{
		router:  router,
		addr:    config.Addr,
		reports: config.Reports,
		metrics: NewServerMetrics(),
		logger:  config.Logger,
	}
	s.setupRoutes()

	return s
}

// Handler http.Handler сервера, для тестов и встраивания
func (s *Server) Handler() http.Handler { return s.router }

// SetResult публикует результат компиляции
func (s *Server) SetResult(res *pack.Result) {
	s.mu.Lock()
	s.result = res
	s.mu.Unlock()
}

func (s *Server) current() *pack.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/stats", s.handleStats)
		api.GET("/packs", s.handlePacks)
		api.GET("/packs/:name", s.handlePack)
		api.GET("/packs/:name/report", s.handlePackReport)
		api.GET("/reports", s.handleReports)
		api.GET("/reports/:session", s.handleReport)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	status := gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	}
	if res := s.current(); res != nil {
		status["session"] = res.Session
	} else {
		status["status"] = "compiling"
	}
	c.JSON(http.StatusOK, status)
}

// handleStats метрики процесса
func (s *Server) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика получена",
		Data:    s.metrics.Snapshot(),
	})
}

func (s *Server) handlePacks(c *gin.Context) {
	res := s.current()
	if res == nil {
		notReady(c)
		return
	}

	summaries := make([]pack.PackSummary, 0, len(res.Packs))
	for _, p := range res.Packs {
		summary, _ := res.Report.Summary(p.Name)
		summary.Name = p.Name
		summaries = append(summaries, summary)
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Список паков получен",
		Data: map[string]interface{}{
			"session": res.Session,
			"packs":   summaries,
			"total":   len(summaries),
		},
	})
}

func (s *Server) handlePack(c *gin.Context) {
	res := s.current()
	if res == nil {
		notReady(c)
		return
	}

	p, ok := res.Pack(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: "Пак не найден",
		})
		return
	}

	summary, _ := res.Report.Summary(p.Name)
	summary.Name = p.Name
	view := PackView{Summary: summary}
	for _, o := range p.Objects() {
		view.Objects = append(view.Objects, objectView(o))
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Пак найден",
		Data:    view,
	})
}

// handlePackReport ошибки компиляции пака. ?session= читает отчёт из хранилища.
func (s *Server) handlePackReport(c *gin.Context) {
	report, ok := s.reportFor(c, c.Query("session"))
	if !ok {
		return
	}

	name := c.Param("name")
	summary, found := findSummary(report, name)
	if !found {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: "Пак не найден в отчёте",
		})
		return
	}

	issues := report.IssuesFor(summary.Name)
	if issues == nil {
		issues = []pack.Issue{}
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Отчёт получен",
		Data: map[string]interface{}{
			"session": report.Session,
			"summary": summary,
			"issues":  issues,
		},
	})
}

func (s *Server) handleReports(c *gin.Context) {
	if s.reports == nil {
		storageDisabled(c)
		return
	}
	sessions, err := s.reports.List()
	if err != nil {
		s.internalError(c, err)
		return
	}
	if sessions == nil {
		sessions = []string{}
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Список отчётов получен",
		Data: map[string]interface{}{
			"sessions": sessions,
			"total":    len(sessions),
		},
	})
}

func (s *Server) handleReport(c *gin.Context) {
	report, ok := s.reportFor(c, c.Param("session"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Отчёт получен",
		Data:    report,
	})
}

// reportFor отчёт сессии из хранилища или отчёт текущего результата, если сессия не задана
func (s *Server) reportFor(c *gin.Context, session string) (*pack.Report, bool) {
	if session == "" {
		if res := s.current(); res != nil {
			return res.Report, true
		}
		if s.reports == nil {
			notReady(c)
			return nil, false
		}
		report, err := s.reports.Latest()
		if err != nil {
			s.internalError(c, err)
			return nil, false
		}
		if report == nil {
			notReady(c)
			return nil, false
		}
		return report, true
	}

	if s.reports == nil {
		storageDisabled(c)
		return nil, false
	}
	report, err := s.reports.Get(session)
	if err != nil {
		s.internalError(c, err)
		return nil, false
	}
	if report == nil {
		c.JSON(http.StatusNotFound, GenericResponse{
			Success: false,
			Message: "Отчёт не найден",
		})
		return nil, false
	}
	return report, true
}

func (s *Server) internalError(c *gin.Context, err error) {
	if s.logger != nil {
		s.logger.Error("Ошибка обработки %s: %v", c.Request.URL.Path, err)
	} else {
		logging.Error("Ошибка обработки %s: %v", c.Request.URL.Path, err)
	}
	c.JSON(http.StatusInternalServerError, GenericResponse{
		Success: false,
		Message: "Внутренняя ошибка сервера",
	})
}

func notReady(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, GenericResponse{
		Success: false,
		Message: "Паки ещё не скомпилированы",
	})
}

func storageDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, GenericResponse{
		Success: false,
		Message: "Хранилище отчётов отключено",
	})
}

func findSummary(report *pack.Report, name string) (pack.PackSummary, bool) {
	for _, p := range report.Packs {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return pack.PackSummary{}, false
}

func objectView(o *pack.Object) ObjectView {
	kinds := o.Nodes().Attached()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	nodes := make([]string, len(kinds))
	for i, k := range kinds {
		nodes[i] = k.String()
	}

	return ObjectView{
		Identifier:   o.Identifier,
		RegistryName: o.RegistryName(),
		Type:         o.Type,
		Title:        o.Title,
		Texture:      o.TextureName,
		Model:        o.ModelName,
		CreativeTab:  o.CreativeTab,
		Nodes:        nodes,
	}
}

// Start запускает сервер и блокируется до Stop
func (s *Server) Start() error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop graceful shutdown
func (s *Server) Stop(ctx context.Context) error {
	s.mu.RLock()
	srv := s.httpServer
	s.mu.RUnlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
