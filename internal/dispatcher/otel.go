package dispatcher

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/radarview/overlay/internal/dispatcher"

func meter() metric.Meter {
	return otel.GetMeterProvider().Meter(instrumentationName)
}
