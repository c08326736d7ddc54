// Package observability builds the logger, metrics and tracer shared by
// every module.
package observability

import (
	"log/slog"
	"os"
	"strings"

	"github.com/Black-And-White-Club/moto-pickem/app/shared/metrics"
	"github.com/Black-And-White-Club/moto-pickem/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const ServiceName = "moto-pickem"

// Observability bundles the telemetry handles passed to modules.
type Observability struct {
	Logger   *slog.Logger
	Metrics  *metrics.PrometheusMetrics
	Registry *prometheus.Registry
	Tracer   trace.Tracer
}

// New creates a JSON logger outside development, a private Prometheus
// registry with Go and process collectors, and a tracer from the global
// otel provider.
func New(cfg config.ObservabilityConfig) Observability {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.Environment == "" || cfg.Environment == "development" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(handler).With(
		slog.String("service", ServiceName),
		slog.String("env", cfg.Environment),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Logger:   logger,
		Metrics:  metrics.NewPrometheusMetrics(reg),
		Registry: reg,
		Tracer:   otel.Tracer(ServiceName),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
