// Package app собирает сервис паков: компилятор, хранилище отчётов, шину событий и REST API.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/annel0/blockpacks/internal/api"
	"github.com/annel0/blockpacks/internal/config"
	"github.com/annel0/blockpacks/internal/eventbus"
	"github.com/annel0/blockpacks/internal/logging"
	"github.com/annel0/blockpacks/internal/observability"
	"github.com/annel0/blockpacks/internal/pack"
	"github.com/annel0/blockpacks/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
)

// MemoryStoragePath путь хранилища, при котором отчёты держатся в памяти
const MemoryStoragePath = ":memory:"

// Service сервис паков. Каждая компиляция создаёт новый компилятор,
// поэтому рецепты повторной компиляции не конфликтуют с прежними.
type Service struct {
	cfg      *config.Config
	bus      eventbus.EventBus
	store    *storage.ReportStore
	server   *api.Server
	metrics  *pack.Metrics
	exporter *eventbus.MetricsExporter
	listener eventbus.Subscription

	mu     sync.RWMutex
	result *pack.Result
}

// NewService создаёт сервис. Метрики регистрируются в reg.
// apiLogger может быть nil: тогда запросы пишутся в логгер по умолчанию.
func NewService(cfg *config.Config, reg *prometheus.Registry, apiLogger *logging.Logger) (*Service, error) {
	var (
		store *storage.ReportStore
		err   error
	)
	if path := cfg.Storage.GetPath(); path == MemoryStoragePath {
		store, err = storage.NewInMemoryReportStore()
	} else {
		store, err = storage.NewReportStore(path)
	}
	if err != nil {
		return nil, fmt.Errorf("хранилище отчётов: %w", err)
	}

	bus := eventbus.NewMemoryBus(1024)
	s := &Service{
		cfg:      cfg,
		bus:      bus,
		store:    store,
		metrics:  pack.NewMetrics(reg),
		exporter: eventbus.NewMetricsExporter(bus, reg),
	}
	s.exporter.Start(5 * time.Second)

	if cfg.Debug.IsDebug() {
		s.listener, err = eventbus.StartLoggingListener(bus)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	s.server = api.NewServer(api.Config{
		Addr:       cfg.API.GetAddr(),
		Reports:    store,
		Logger:     apiLogger,
		Registerer: reg,
		Gatherer:   reg,
		Tracing:    cfg.Telemetry.Enabled,
		Service:    cfg.Telemetry.Service,
	})

	return s, nil
}

// Bus шина событий сервиса
func (s *Service) Bus() eventbus.EventBus { return s.bus }

// Server REST API сервиса
func (s *Service) Server() *api.Server { return s.server }

// Store хранилище отчётов
func (s *Service) Store() *storage.ReportStore { return s.store }

// Result последний результат компиляции или nil
func (s *Service) Result() *pack.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Options параметры компилятора из конфигурации
func (s *Service) Options() pack.Options {
	return pack.Options{
		ModID:        s.cfg.Packs.ModID,
		DefaultModID: s.cfg.Packs.DefaultModID,
		Debug:        s.cfg.Debug.IsDebug(),
		Language:     s.cfg.Packs.Language,
		Bus:          s.bus,
		Metrics:      s.metrics,
	}
}

// Compile компилирует каталог паков, сохраняет отчёт и публикует результат в API
func (s *Service) Compile(ctx context.Context) (*pack.Result, error) {
	dir := s.cfg.Packs.GetDir()
	ctx, span := observability.StartCompile(ctx, dir)

	res, err := pack.NewCompiler(s.Options()).LoadDirectory(dir)
	if err != nil {
		observability.EndCompile(span, "", 0, 0, err)
		return nil, err
	}
	observability.EndCompile(span, res.Session, len(res.Packs), len(res.Report.Issues), nil)

	s.mu.Lock()
	s.result = res
	s.mu.Unlock()
	s.server.SetResult(res)

	if err := s.store.Save(res.Report); err != nil {
		logging.Error("❌ Не удалось сохранить отчёт %s: %v", res.Session, err)
		return res, err
	}

	ev, err := eventbus.NewEnvelope(eventbus.DefaultSourceName, eventbus.TypeReportStored, eventbus.ReportStored{
		Session: res.Session,
		Packs:   len(res.Packs),
		Issues:  len(res.Report.Issues),
	})
	if err == nil {
		ev.CorrelationID = res.Session
		_ = s.bus.Publish(ctx, ev)
	}

	logging.Info("✅ Скомпилировано паков: %d, моделей: %d, рецептов: %d, ошибок: %d",
		len(res.Packs), res.Report.Models, res.Report.Recipes, len(res.Report.Issues))
	return res, nil
}

// Close останавливает фоновые компоненты и закрывает хранилище
func (s *Service) Close() error {
	if s.listener != nil {
		s.listener.Unsubscribe()
	}
	s.exporter.Stop()
	s.bus.Close()
	return s.store.Close()
}
