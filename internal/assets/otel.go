package assets

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/amrayach/house-of-letters/internal/assets"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Settlement outcomes recorded on the settled counter.
const (
	outcomeLoaded    = "loaded"
	outcomeFailed    = "failed"
	outcomeAbandoned = "abandoned"
)

type metrics struct {
	settled  metric.Int64Counter
	duration metric.Float64Histogram
}

// newMetrics uses the global OTel meter (no-op if not configured).
func newMetrics() (*metrics, error) {
	m := meter()

	settled, err := m.Int64Counter(
		"intro.assets.settled",
		metric.WithDescription("Asset loads settled, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating settled counter: %w", err)
	}

	duration, err := m.Float64Histogram(
		"intro.assets.load.duration",
		metric.WithDescription("Asset load duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating load duration histogram: %w", err)
	}

	return &metrics{settled: settled, duration: duration}, nil
}

func (m *metrics) record(asset, outcome string, d time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("asset", asset),
		attribute.String("outcome", outcome),
	)
	m.settled.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
}
