package observability

import (
	"context"
	"time"

	"github.com/annel0/blockpacks/internal/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// ShutdownFunc завершает экспорт трассировок
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTelemetry настраивает OTLP экспортер и устанавливает глобальный TracerProvider.
// При enabled == false ничего не настраивает и возвращает пустой shutdown.
func InitTelemetry(ctx context.Context, serviceName string, enabled bool) (ShutdownFunc, error) {
	if !enabled {
		return noopShutdown, nil
	}

	// OTLP HTTP экспортер (по умолчанию localhost:4318, OTEL_EXPORTER_OTLP_ENDPOINT)
	exp, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	logging.Info("📡 OpenTelemetry инициализирован (OTLP, service=%s)", serviceName)

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}, nil
}

// Tracer трассировщик компилятора паков из глобального провайдера
func Tracer() trace.Tracer {
	return otel.Tracer("github.com/annel0/blockpacks")
}

// StartCompile открывает span компиляции каталога паков
func StartCompile(ctx context.Context, dir string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "packs.compile", trace.WithAttributes(
		attribute.String("packs.dir", dir),
	))
}

// EndCompile закрывает span с итогами компиляции
func EndCompile(span trace.Span, session string, packs, issues int, err error) {
	span.SetAttributes(
		attribute.String("packs.session", session),
		attribute.Int("packs.count", packs),
		attribute.Int("packs.issues", issues),
	)
	if err != nil {
		span.RecordError(err)
	}
	span.End()
}
