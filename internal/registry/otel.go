package registry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/zephp/extension/internal/registry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
