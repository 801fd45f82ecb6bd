package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// TracingConfig configures the otel tracer provider.
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	SamplingRate   float64
	Enabled        bool
}

// TracingProvider wraps the otel tracer used to turn the planner's six
// solving phases (spec.md §5) into spans, via a PhaseObserver closure
// container.go hands to planner.Service.WithPhaseObserver.
type TracingProvider struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	logger   *zap.Logger
	config   TracingConfig
}

// NewTracingProvider creates a tracer. When disabled it still returns a
// usable no-op provider so callers never need a nil check.
func NewTracingProvider(cfg TracingConfig, logger *zap.Logger) (*TracingProvider, error) {
	if !cfg.Enabled {
		logger.Info("tracing disabled")
		return &TracingProvider{tracer: otel.Tracer(cfg.ServiceName), logger: logger, config: cfg}, nil
	}

	exporter, err := otlptracehttp.New(context.Background(), otlptracehttp.WithEndpoint(cfg.OTLPEndpoint))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SamplingRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info("tracing initialized", zap.String("service", cfg.ServiceName), zap.String("otlp_endpoint", cfg.OTLPEndpoint))
	return &TracingProvider{tracer: tp.Tracer(cfg.ServiceName), provider: tp, logger: logger, config: cfg}, nil
}

// StartPhaseSpan starts a span named after one of the planner's six
// solving phases (spec.md §5).
func (t *TracingProvider) StartPhaseSpan(ctx context.Context, planID string, phase string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "planner."+phase,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("plan.id", planID), attribute.String("planner.phase", phase)),
	)
}

// Shutdown flushes and stops the tracer provider.
func (t *TracingProvider) Shutdown(ctx context.Context) error {
	if t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
