package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "linkmend"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	checkDuration *prom.HistogramVec
	checks        *prom.CounterVec
	outcomes      *prom.CounterVec
	retries       prom.Counter
	cacheHits     prom.Counter
	docDuration   prom.Histogram
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		checkDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "check_duration_seconds",
			Help:      "Duration of single URL validations",
			Buckets:   prom.DefBuckets,
		}, []string{"platform"}),
		checks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "URL validations by platform and status",
		}, []string{"platform", "status"}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "link_outcomes_total",
			Help:      "Link occurrences by rewrite outcome",
		}, []string{"outcome"}),
		retries: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "check_retries_total",
			Help:      "Retried URL requests after transient failures",
		}),
		cacheHits: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "check_cache_hits_total",
			Help:      "Validations answered from the per-run cache",
		}),
		docDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "document_duration_seconds",
			Help:      "Duration of whole document rewrites",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.checkDuration, pr.checks, pr.outcomes, pr.retries, pr.cacheHits, pr.docDuration)
	return pr
}

func (p *PrometheusRecorder) ObserveCheck(platform, status string, d time.Duration) {
	if p == nil {
		return
	}
	p.checkDuration.WithLabelValues(platform).Observe(d.Seconds())
	p.checks.WithLabelValues(platform, status).Inc()
}

func (p *PrometheusRecorder) IncOutcome(outcome string) {
	if p == nil {
		return
	}
	p.outcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncRetry() {
	if p == nil {
		return
	}
	p.retries.Inc()
}

func (p *PrometheusRecorder) IncCacheHit() {
	if p == nil {
		return
	}
	p.cacheHits.Inc()
}

func (p *PrometheusRecorder) ObserveDocument(d time.Duration) {
	if p == nil {
		return
	}
	p.docDuration.Observe(d.Seconds())
}

// WriteTextfile writes everything gathered by g to path in the text
// exposition format, for the node_exporter textfile collector.
func WriteTextfile(g prom.Gatherer, path string) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
