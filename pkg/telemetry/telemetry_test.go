package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMustNewTracerProviderExportsSpans(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	tp := MustNewTracerProvider(exp, WithServiceName("quell-test"), WithSamplingRatio(1))
	defer func() {
		require.NoError(t, tp.Shutdown(context.Background()))
	}()

	_, span := tp.Tracer("pkg/telemetry").Start(context.Background(), "transitive.GetResult")
	TraceError(span, errors.New("cancelled"))
	span.End()

	require.NoError(t, tp.ForceFlush(context.Background()))
	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "transitive.GetResult", spans[0].Name)
	require.Equal(t, codes.Error, spans[0].Status.Code)
	require.Equal(t, "cancelled", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
}

func TestMustNewTracerProviderWithoutExporter(t *testing.T) {
	tp := MustNewTracerProvider(nil)
	defer func() {
		require.NoError(t, tp.Shutdown(context.Background()))
	}()

	_, span := tp.Tracer("pkg/telemetry").Start(context.Background(), "noop")
	span.End()
}
