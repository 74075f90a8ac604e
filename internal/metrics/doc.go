// Package metrics provides build metrics for doctags.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	b := site.NewBuilder(cfg, registry) // records nothing
//	b.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors with the given registry and
// HTTPHandler exposes that registry, which `doctags serve` mounts at /metrics.
package metrics
