package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/annel0/blockpacks/internal/app"
	"github.com/annel0/blockpacks/internal/config"
	"github.com/annel0/blockpacks/internal/logging"
	"github.com/annel0/blockpacks/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигурации (по умолчанию $BLOCKPACKS_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка чтения конфигурации: %v", err)
	}

	if err := logging.InitDefaultLogger("packd"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()
	level := logging.ParseLevel(cfg.Logging.Level)
	logging.SetConsoleLevel(level)
	logging.GetLoggerManager().SetDefaultLevels(level, logging.TRACE)

	logging.Info("📦 Запуск сервиса паков (каталог=%s, API=%s)", cfg.Packs.GetDir(), cfg.API.GetAddr())

	ctx := context.Background()
	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry.Service, cfg.Telemetry.Enabled)
	if err != nil {
		logging.Error("❌ Ошибка инициализации OpenTelemetry: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	svc, err := app.NewService(cfg, reg, logging.GetAPILogger())
	if err != nil {
		logging.Error("❌ Ошибка создания сервиса: %v", err)
		os.Exit(1)
	}

	go func() {
		if err := svc.Server().Start(); err != nil {
			logging.Error("❌ Ошибка REST API: %v", err)
		}
	}()
	logging.Info("   🌐 REST API: http://localhost%s/api/packs", cfg.API.GetAddr())
	logging.Info("   ❤️  Health check: http://localhost%s/health", cfg.API.GetAddr())

	if _, err := svc.Compile(ctx); err != nil {
		logging.Error("❌ Ошибка компиляции паков: %v", err)
	}

	// SIGHUP перекомпилирует паки, SIGINT/SIGTERM завершают работу
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for sig := range sigCh {
		if sig == syscall.SIGHUP {
			logging.Info("🔄 Получен %v, перекомпиляция паков...", sig)
			if _, err := svc.Compile(ctx); err != nil {
				logging.Error("❌ Ошибка компиляции паков: %v", err)
			}
			continue
		}
		logging.Info("📡 Получен сигнал %v, завершение работы...", sig)
		break
	}

	stopCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	logging.Debug("Остановка REST API...")
	if err := svc.Server().Stop(stopCtx); err != nil {
		logging.Error("❌ Ошибка остановки REST API: %v", err)
	}
	if err := svc.Close(); err != nil {
		logging.Error("❌ Ошибка закрытия хранилища: %v", err)
	}
	if err := shutdownTelemetry(stopCtx); err != nil {
		logging.Error("❌ Ошибка остановки OpenTelemetry: %v", err)
	}

	logging.Info("👋 Сервис паков остановлен")
}
