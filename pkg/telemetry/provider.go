package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"

	"github.com/quellgraph/quell/internal/build"
)

type TracerOption func(t *customTracer)

func WithServiceName(serviceName string) TracerOption {
	return func(t *customTracer) {
		t.serviceName = serviceName
	}
}

func WithSamplingRatio(samplingRatio float64) TracerOption {
	return func(t *customTracer) {
		t.samplingRatio = samplingRatio
	}
}

type customTracer struct {
	serviceName   string
	samplingRatio float64
}

// MustNewTracerProvider builds a tracer provider around the given span
// exporter and installs it globally. A nil exporter yields a provider
// without a span processor, so no span is exported, which keeps embedding
// applications free to defer the export decision. The caller owns the returned provider's Shutdown.
func MustNewTracerProvider(exp sdktrace.SpanExporter, opts ...TracerOption) *sdktrace.TracerProvider {
	tracer := &customTracer{
		serviceName:   build.ProjectName,
		samplingRatio: 1,
	}
	for _, opt := range opts {
		opt(tracer)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceNameKey.String(tracer.serviceName),
			semconv.ServiceVersionKey.String(build.Version),
		))
	if err != nil {
		panic(err)
	}

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(tracer.samplingRatio)),
		sdktrace.WithResource(res),
	}
	if exp != nil {
		providerOpts = append(providerOpts, sdktrace.WithSpanProcessor(sdktrace.NewBatchSpanProcessor(exp)))
	}
	tp := sdktrace.NewTracerProvider(providerOpts...)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	otel.SetTracerProvider(tp)

	return tp
}
