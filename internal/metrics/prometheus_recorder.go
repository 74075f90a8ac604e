package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "doctags"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	hookDuration     *prom.HistogramVec
	passDuration     prom.Histogram
	buildDuration    prom.Histogram
	passResults      *prom.CounterVec
	buildOutcome     *prom.CounterVec
	recordsCollected prom.Gauge
	tagGroups        prom.Gauge
	pagesRendered    prom.Counter
	rebuildRequests  prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		hookDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "hook_duration_seconds",
			Help:      "Duration of plugin hook phases",
			Buckets:   prom.DefBuckets,
		}, []string{"hook"}),
		passDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "pass_duration_seconds",
			Help:      "Duration of a single pipeline pass",
			Buckets:   prom.DefBuckets,
		}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration across all passes",
			Buckets:   prom.DefBuckets,
		}),
		passResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pass_results_total",
			Help:      "Pipeline pass counts by result",
		}, []string{"result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		recordsCollected: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "records_collected",
			Help:      "Metadata records collected in the last generation",
		}),
		tagGroups: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "tag_groups",
			Help:      "Tag groups rendered in the last generation",
		}),
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Markdown pages rendered to HTML",
		}),
		rebuildRequests: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_requests_total",
			Help:      "Extra passes requested after a tag page changed",
		}),
	}
	reg.MustRegister(
		pr.hookDuration, pr.passDuration, pr.buildDuration,
		pr.passResults, pr.buildOutcome,
		pr.recordsCollected, pr.tagGroups,
		pr.pagesRendered, pr.rebuildRequests,
	)
	return pr
}

func (p *PrometheusRecorder) ObserveHookDuration(hook string, d time.Duration) {
	if p == nil {
		return
	}
	p.hookDuration.WithLabelValues(hook).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePassDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.passDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPassResult(result ResultLabel) {
	if p == nil {
		return
	}
	p.passResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(result ResultLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) SetRecordsCollected(n int) {
	if p == nil {
		return
	}
	p.recordsCollected.Set(float64(n))
}

func (p *PrometheusRecorder) SetTagGroups(n int) {
	if p == nil {
		return
	}
	p.tagGroups.Set(float64(n))
}

func (p *PrometheusRecorder) IncPagesRendered(n int) {
	if p == nil {
		return
	}
	p.pagesRendered.Add(float64(n))
}

func (p *PrometheusRecorder) IncRebuildRequest() {
	if p == nil {
		return
	}
	p.rebuildRequests.Inc()
}
