// Package telemetry records annotation sessions as OpenTelemetry traces.
// Export is enabled only when an OTLP endpoint is configured; otherwise every
// call is a no-op.
package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"annotate/internal/config"
)

const instrumentationName = "annotate/workspace"

// Recorder creates spans for workspace sessions and selection changes.
type Recorder struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// New creates a Recorder exporting to cfg.Endpoint over OTLP/HTTP.
// An empty endpoint returns a disabled recorder.
func New(ctx context.Context, cfg config.TelemetryConfig) (*Recorder, error) {
	if cfg.Endpoint == "" {
		return Disabled(), nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	name := cfg.ServiceName
	if name == "" {
		name = "annotate"
	}
	res := resource.NewSchemaless(attribute.String("service.name", name))

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return NewWithProvider(provider), nil
}

// NewWithProvider wraps an existing tracer provider. Tests use this with an
// in-memory span recorder.
func NewWithProvider(provider *sdktrace.TracerProvider) *Recorder {
	return &Recorder{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
	}
}

// Disabled returns a recorder whose spans are discarded.
func Disabled() *Recorder {
	return &Recorder{tracer: noop.NewTracerProvider().Tracer(instrumentationName)}
}

// Enabled reports whether spans are exported.
func (r *Recorder) Enabled() bool {
	return r != nil && r.provider != nil
}

// StartSession opens a span covering the annotation of one text. The returned
// end func must be called when the text is closed.
func (r *Recorder) StartSession(ctx context.Context, project, text string, segments int) (context.Context, func()) {
	if r == nil {
		return ctx, func() {}
	}
	ctx, span := r.tracer.Start(ctx, "annotate.session",
		oteltrace.WithAttributes(
			attribute.String("annotate.project", project),
			attribute.String("annotate.text", text),
			attribute.Int("annotate.segments", segments),
		),
	)
	return ctx, func() { span.End() }
}

// SelectionChanged adds an event to the session span in ctx.
func (r *Recorder) SelectionChanged(ctx context.Context, segment int, labels []string) {
	if r == nil {
		return
	}
	span := oteltrace.SpanFromContext(ctx)
	span.AddEvent("selection_changed", oteltrace.WithAttributes(
		attribute.Int("annotate.segment", segment),
		attribute.String("annotate.labels", strings.Join(labels, ",")),
		attribute.Int("annotate.label_count", len(labels)),
	))
}

// Shutdown flushes pending spans.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if !r.Enabled() {
		return nil
	}
	return r.provider.Shutdown(ctx)
}
