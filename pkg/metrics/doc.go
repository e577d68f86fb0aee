// Package metrics exposes Prometheus instrumentation for the SDK.
//
// A Collector is registered against a caller-supplied prometheus.Registerer;
// nothing is registered globally. All methods are safe on a nil *Collector,
// so instrumentation stays optional for the client.
//
//	reg := prometheus.NewRegistry()
//	m, err := metrics.New(reg, "solidgate")
//	client, err := solidgate.New(merchant, secret, solidgate.WithMetrics(m))
package metrics
