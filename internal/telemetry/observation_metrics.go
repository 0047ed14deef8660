package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	sessionsLogged   metric.Int64Counter
	exposureLogged   metric.Float64Histogram
	projectLifecycle metric.Int64Counter
)

// InitObservationMetrics registers the observation-log instruments on the
// global meter provider. Recording before initialization is a no-op.
func InitObservationMetrics() error {
	meter := otel.Meter("astrotrack.observations")

	var err error
	sessionsLogged, err = meter.Int64Counter(
		"observation.sessions.logged",
		metric.WithDescription("Number of observation sessions logged"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return err
	}

	exposureLogged, err = meter.Float64Histogram(
		"observation.exposure.logged",
		metric.WithDescription("Integration time per logged session"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	projectLifecycle, err = meter.Int64Counter(
		"observation.projects.lifecycle",
		metric.WithDescription("Projects created and deleted"),
		metric.WithUnit("{project}"),
	)
	return err
}

func RecordSessionLogged(ctx context.Context, filterCount int, exposureSeconds float64) {
	if sessionsLogged != nil {
		sessionsLogged.Add(ctx, 1, metric.WithAttributes(attribute.Int("filters", filterCount)))
	}
	if exposureLogged != nil {
		exposureLogged.Record(ctx, exposureSeconds)
	}
}

// RecordProjectLifecycle counts a project event; action is "created" or "deleted".
func RecordProjectLifecycle(ctx context.Context, action string) {
	if projectLifecycle != nil {
		projectLifecycle.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	}
}
