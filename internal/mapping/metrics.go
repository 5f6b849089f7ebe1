package mapping

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is the instrumentation scope used when a MeterProvider is given.
const MeterName = "github.com/roach88/allfiledmap/internal/mapping"

// Conversion outcomes recorded on the conversions counter.
const (
	OutcomeMapped    = "mapped"
	OutcomeNoMapping = "no_mapping"
	OutcomeError     = "error"
)

// metrics holds the OpenTelemetry instruments for the mapper.
type metrics struct {
	// conversions counts every conversion by op and outcome.
	conversions metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(MeterName)
	}

	conversions, err := meter.Int64Counter(
		"allfiledmap.conversions",
		metric.WithDescription("Number of identifier conversions performed"),
		metric.WithUnit("{conversion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create conversions counter: %w", err)
	}

	return &metrics{conversions: conversions}, nil
}

// record increments the conversions counter. Conversions take no context,
// so the measurement is recorded against context.Background.
func (m *metrics) record(op, outcome string) {
	m.conversions.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String("op", op),
			attribute.String("outcome", outcome),
		),
	)
}
