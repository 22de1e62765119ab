package otel

import "go.opentelemetry.io/otel/metric"

// Metrics holds all configwatchd metrics instruments.
type Metrics struct {
	ResolveDuration      metric.Float64Histogram
	RefreshDuration      metric.Float64Histogram
	ChangesEmitted       metric.Int64Counter
	WatchInstallFailures metric.Int64Counter
	CacheSize            metric.Int64UpDownCounter
	WatchedDirectories   metric.Int64UpDownCounter
}

// NewMetrics creates all metric instruments from the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.ResolveDuration, err = meter.Float64Histogram("configwatchd.resolve.duration",
		metric.WithDescription("Resolver.Resolve/FindPath wall time in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.RefreshDuration, err = meter.Float64Histogram("configwatchd.refresh.duration",
		metric.WithDescription("RefreshCoordinator.Refresh pass duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.ChangesEmitted, err = meter.Int64Counter("configwatchd.refresh.changes",
		metric.WithDescription("Total ConfigChange values emitted across all refresh passes"),
	)
	if err != nil {
		return nil, err
	}

	m.WatchInstallFailures, err = meter.Int64Counter("configwatchd.watch.install_failures",
		metric.WithDescription("Best-effort directory watch installs that failed"),
	)
	if err != nil {
		return nil, err
	}

	m.CacheSize, err = meter.Int64UpDownCounter("configwatchd.cache.entries",
		metric.WithDescription("Current number of Configuration entries held in the cache"),
	)
	if err != nil {
		return nil, err
	}

	m.WatchedDirectories, err = meter.Int64UpDownCounter("configwatchd.watch.directories",
		metric.WithDescription("Current number of directories registered with the watch engine"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
