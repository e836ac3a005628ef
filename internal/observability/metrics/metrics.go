package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	quotesComputed   metric.Int64Counter
	leadsScored      metric.Int64Counter
	configCreates    metric.Int64Counter
	balanceUpdates   metric.Int64Counter
	balanceConflicts metric.Int64Counter
	exportsWritten   metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "lexbill"
	}
	meter := provider.Meter(name)

	quotesComputed, err := meter.Int64Counter("lexbill_renewal_quotes_total")
	if err != nil {
		return nil, err
	}
	leadsScored, err := meter.Int64Counter("lexbill_leads_scored_total")
	if err != nil {
		return nil, err
	}
	configCreates, err := meter.Int64Counter("lexbill_ledes_config_creates_total")
	if err != nil {
		return nil, err
	}
	balanceUpdates, err := meter.Int64Counter("lexbill_balance_updates_total")
	if err != nil {
		return nil, err
	}
	balanceConflicts, err := meter.Int64Counter("lexbill_balance_write_conflicts_total")
	if err != nil {
		return nil, err
	}
	exportsWritten, err := meter.Int64Counter("lexbill_ledes_exports_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotesComputed:   quotesComputed,
		leadsScored:      leadsScored,
		configCreates:    configCreates,
		balanceUpdates:   balanceUpdates,
		balanceConflicts: balanceConflicts,
		exportsWritten:   exportsWritten,
	}, nil
}

// RecordQuote increments renewal quote counts.
func (m *Metrics) RecordQuote(ctx context.Context, speed string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("speed", strings.TrimSpace(speed)))
	m.quotesComputed.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLeadScored increments lead scoring counts.
func (m *Metrics) RecordLeadScored(ctx context.Context) {
	if m == nil {
		return
	}
	m.leadsScored.Add(ctx, 1)
}

// RecordConfigCreate increments LEDES configuration create counts.
func (m *Metrics) RecordConfigCreate(ctx context.Context, format string, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("format", strings.TrimSpace(format)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.configCreates.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBalanceUpdate increments balance update counts by operation and outcome.
func (m *Metrics) RecordBalanceUpdate(ctx context.Context, operation, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("operation", strings.TrimSpace(operation)),
		attribute.String("outcome", strings.TrimSpace(outcome)),
	)
	m.balanceUpdates.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBalanceConflict increments write-conflict retry counts.
func (m *Metrics) RecordBalanceConflict(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("operation", strings.TrimSpace(operation)))
	m.balanceConflicts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordExport increments LEDES export counts.
func (m *Metrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("format", strings.TrimSpace(format)))
	m.exportsWritten.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"speed":     {},
	"format":    {},
	"operation": {},
	"outcome":   {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
