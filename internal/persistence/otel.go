package persistence

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/colortour/hotspot-editor/internal/persistence"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type persisterMetrics struct {
	saveBytes  metric.Int64Histogram
	truncated  metric.Int64Counter
	recoveries metric.Int64Counter
	failures   metric.Int64Counter
}

func newPersisterMetrics() (*persisterMetrics, error) {
	m := meter()

	saveBytes, err := m.Int64Histogram("persistence.save.bytes",
		metric.WithDescription("Size of each serialized hotspot record"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, err
	}
	truncated, err := m.Int64Counter("persistence.save.truncated",
		metric.WithDescription("Saves that dropped older hotspots to fit the record ceiling"))
	if err != nil {
		return nil, err
	}
	recoveries, err := m.Int64Counter("persistence.quota.recoveries",
		metric.WithDescription("Quota failures handled by the emergency write"))
	if err != nil {
		return nil, err
	}
	failures, err := m.Int64Counter("persistence.save.failures",
		metric.WithDescription("Writes that failed for reasons other than quota"))
	if err != nil {
		return nil, err
	}

	return &persisterMetrics{
		saveBytes:  saveBytes,
		truncated:  truncated,
		recoveries: recoveries,
		failures:   failures,
	}, nil
}
