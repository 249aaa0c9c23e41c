package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"

	"github.com/yungbote/edubox-backend/internal/platform/envutil"
	"github.com/yungbote/edubox-backend/internal/platform/logger"
)

// TracingConfig controls the global tracer provider. With no Endpoint spans
// are pretty-printed to stdout.
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Environment string
	Version     string

	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	SampleRatio float64
}

// TracingConfigFromEnv reads the OTEL_* variables on top of the service
// identity.
func TracingConfigFromEnv(service, environment, version string) TracingConfig {
	return TracingConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName: service,
		Environment: environment,
		Version:     version,
		Endpoint:    strings.TrimSpace(envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "")),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		Headers:     parseHeaderList(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
		SampleRatio: clampRatio(envutil.Float("OTEL_SAMPLER_RATIO", 0.1)),
	}
}

// InitTracing installs the global tracer provider and W3C propagators and
// returns the flush func. Disabled tracing, or an exporter that cannot be
// built, leaves the no-op provider in place.
func InitTracing(ctx context.Context, log *logger.Logger, cfg TracingConfig) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop
	}
	log = log.With("component", "tracing")

	exporter, err := newSpanExporter(ctx, cfg)
	if err != nil {
		log.Warn("span exporter unavailable, tracing disabled", "error", err)
		return noop
	}
	// Attributes only, no schema URL: the sdk's default resource carries a
	// newer semconv schema and the two would refuse to merge.
	res, err := resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			semconv.ServiceName(orDefault(cfg.ServiceName, "edubox")),
			semconv.ServiceVersion(cfg.Version),
			attribute.String("deployment.environment", cfg.Environment),
		),
	)
	if err != nil {
		log.Warn("building otel resource failed", "error", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info("tracing enabled", "endpoint", orDefault(cfg.Endpoint, "stdout"), "ratio", cfg.SampleRatio)
	return tp.Shutdown
}

func newSpanExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	if cfg.Endpoint == "" {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	if len(cfg.Headers) > 0 {
		opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
	}
	return otlptracehttp.New(ctx, opts...)
}

// parseHeaderList reads "k1=v1,k2=v2". Malformed pairs are skipped.
func parseHeaderList(raw string) map[string]string {
	var out map[string]string
	for _, part := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(part, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = v
	}
	return out
}

func clampRatio(f float64) float64 {
	return min(max(f, 0), 1)
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
