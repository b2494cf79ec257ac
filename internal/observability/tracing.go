// observability — настройка OpenTelemetry для клиента.
//
// Без endpoint трассы не экспортируются: возвращается no-op трейсер, и
// интерсептор трассировки ничего не пишет.
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/pribylovaa/twaincards-client/internal/config"
)

// InstrumentationName — имя трейсера клиента.
const InstrumentationName = "github.com/pribylovaa/twaincards-client"

// Shutdown сбрасывает буфер спанов и останавливает экспорт.
type Shutdown func(context.Context) error

// Setup поднимает TracerProvider с OTLP/HTTP экспортёром.
func Setup(ctx context.Context, cfg config.TracingConfig) (trace.Tracer, Shutdown, error) {
	const op = "observability.tracing.Setup"

	if cfg.Endpoint == "" {
		return noop.NewTracerProvider().Tracer(InstrumentationName), func(context.Context) error { return nil }, nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	res := sdkresource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Tracer(InstrumentationName), tp.Shutdown, nil
}
