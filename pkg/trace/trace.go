package trace

import (
    "context"

    "go.opentelemetry.io/otel"
    "go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
    "go.opentelemetry.io/otel/sdk/resource"
    sdktrace "go.opentelemetry.io/otel/sdk/trace"
    semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

    "github.com/d60-Lab/campus-moments/config"
)

// Init 初始化 OTLP trace 导出；未启用时返回 no-op shutdown
func Init(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
    if !cfg.Trace.Enabled {
        return func(context.Context) error { return nil }, nil
    }

    exp, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(cfg.Trace.Endpoint), otlptracehttp.WithInsecure())
    if err != nil {
        return nil, err
    }

    res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
        semconv.SchemaURL,
        semconv.ServiceName("campus-moments"),
    ))
    if err != nil {
        return nil, err
    }

    tp := sdktrace.NewTracerProvider(
        sdktrace.WithBatcher(exp),
        sdktrace.WithResource(res),
    )
    otel.SetTracerProvider(tp)
    return tp.Shutdown, nil
}
