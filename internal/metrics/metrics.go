// Package metrics exposes billing counters on a private Prometheus registry.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pos-billing/internal/core"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	BillsCreated     prometheus.Counter
	FinalizeOutcomes *prometheus.CounterVec
	Redirects        prometheus.Counter
	ReturnOutcomes   *prometheus.CounterVec
	Settlements      *prometheus.CounterVec
	APIRequests      *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BillsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos_billing",
			Name:      "bills_created_total",
			Help:      "Bills created by finalize runs.",
		}),
		FinalizeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos_billing",
			Name:      "finalize_runs_total",
			Help:      "Finalize runs by outcome.",
		}, []string{"outcome"}),
		Redirects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pos_billing",
			Name:      "checkout_redirects_total",
			Help:      "Online checkout sessions handed to the operator.",
		}),
		ReturnOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos_billing",
			Name:      "payment_returns_total",
			Help:      "Payment processor returns by verification status.",
		}, []string{"status"}),
		Settlements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos_billing",
			Name:      "settlements_total",
			Help:      "Bill settlements by outcome.",
		}, []string{"outcome"}),
		APIRequests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pos_billing",
			Name:      "backend_request_seconds",
			Help:      "Latency of POS backend calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		m.BillsCreated, m.FinalizeOutcomes, m.Redirects,
		m.ReturnOutcomes, m.Settlements, m.APIRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveAPI matches posapi.ObserveFunc. Status 0 means a transport failure.
func (m *Metrics) ObserveAPI(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveFinalize records a finalize run. Bills created before a failure
// still count.
func (m *Metrics) ObserveFinalize(res *core.FinalizeResult, err error) {
	if m == nil {
		return
	}
	var fe *core.FinalizeError
	switch {
	case err == nil && res != nil:
		m.BillsCreated.Add(float64(len(res.CreatedBillIDs)))
		if res.Redirect != nil {
			m.Redirects.Inc()
			m.FinalizeOutcomes.WithLabelValues("redirect").Inc()
		} else {
			m.FinalizeOutcomes.WithLabelValues("completed").Inc()
		}
	case errors.As(err, &fe):
		m.BillsCreated.Add(float64(len(fe.CreatedBillIDs)))
		m.FinalizeOutcomes.WithLabelValues("failed").Inc()
	default:
		m.FinalizeOutcomes.WithLabelValues("failed").Inc()
	}
}

func (m *Metrics) ObserveReturn(out core.ReturnOutcome) {
	if m == nil {
		return
	}
	m.ReturnOutcomes.WithLabelValues(string(out.Status)).Inc()
}

func (m *Metrics) ObserveSettle(err error) {
	if m == nil {
		return
	}
	outcome := "paid"
	if err != nil {
		outcome = "failed"
	}
	m.Settlements.WithLabelValues(outcome).Inc()
}
