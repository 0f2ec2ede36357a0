package api

import (
	"context"
	"time"

	"github.com/codeGROOVE-dev/worldtz/pkg/timezone"
	"github.com/codeGROOVE-dev/worldtz/pkg/tzconvert"
	"github.com/go-kit/kit/metrics"
	kitprometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

var _ Service = (*metricsMiddleware)(nil)

// MakeMetrics returns a Prometheus request counter and latency summary,
// both labelled by method.
func MakeMetrics(namespace, subsystem string) (*kitprometheus.Counter, *kitprometheus.Summary) {
	counter := kitprometheus.NewCounterFrom(stdprometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_count",
		Help:      "Number of requests received.",
	}, []string{"method"})
	latency := kitprometheus.NewSummaryFrom(stdprometheus.SummaryOpts{
		Namespace:  namespace,
		Subsystem:  subsystem,
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		Name:       "request_latency_seconds",
		Help:       "Duration of requests in seconds.",
	}, []string{"method"})

	return counter, latency
}

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     Service
}

// MetricsMiddleware counts requests and records their latency per method.
func MetricsMiddleware(svc Service, counter metrics.Counter, latency metrics.Histogram) Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) observe(method string, begin time.Time) {
	mm.counter.With("method", method).Add(1)
	mm.latency.With("method", method).Observe(time.Since(begin).Seconds())
}

func (mm *metricsMiddleware) Zones(ctx context.Context, query string, limit int) (ZonesPage, error) {
	defer mm.observe("zones", time.Now())
	return mm.svc.Zones(ctx, query, limit)
}

func (mm *metricsMiddleware) Zone(ctx context.Context, id string) (timezone.Entry, error) {
	defer mm.observe("zone", time.Now())
	return mm.svc.Zone(ctx, id)
}

func (mm *metricsMiddleware) Offset(ctx context.Context, id string, at time.Time) (string, error) {
	defer mm.observe("offset", time.Now())
	return mm.svc.Offset(ctx, id, at)
}

func (mm *metricsMiddleware) Parse(ctx context.Context, text string) (string, error) {
	defer mm.observe("parse", time.Now())
	return mm.svc.Parse(ctx, text)
}

func (mm *metricsMiddleware) Convert(ctx context.Context, req ConvertRequest) ([]tzconvert.Result, error) {
	defer mm.observe("convert", time.Now())
	return mm.svc.Convert(ctx, req)
}
