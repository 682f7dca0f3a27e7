// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.
//
// Copyright 2024 FeatureForm Inc.
//

package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

type Observation string

const (
	RUNNING Observation = "running"
	ERROR   Observation = "error"
	SUCCESS Observation = "success"
)

// Poke results as they appear on the sensor_pokes_total counter.
const (
	PokeReady    = "ready"
	PokeNotReady = "not_ready"
	PokeError    = "error"
)

type CalculationMetrics interface {
	BeginObservingCalculation(sessionID string) CalculationObserver
	ObservePoke(result string)
	ObserveStop(err error)
	ExposePort(port string) error
}

type CalculationObserver interface {
	ObserveState(state string)
	SetError()
	Finish()
}

type PromMetricsHandler struct {
	Hist        *prometheus.HistogramVec
	Count       *prometheus.CounterVec
	StateChecks *prometheus.CounterVec
	Pokes       *prometheus.CounterVec
	Stops       *prometheus.CounterVec
	Name        string
	gatherer    prometheus.Gatherer
	clock       clockwork.Clock
}

// PromCalculationObserver records a calculation's duration once, on whichever of SetError or Finish
// comes first.
type PromCalculationObserver struct {
	Hist        *prometheus.HistogramVec
	Count       *prometheus.CounterVec
	StateChecks *prometheus.CounterVec
	Name        string
	Session     string
	clock       clockwork.Clock
	started     time.Time
	once        sync.Once
}

// NewMetrics registers the calculation collectors on the default registry.
func NewMetrics(name string) PromMetricsHandler {
	return NewMetricsWithRegistry(name, prometheus.DefaultRegisterer, prometheus.DefaultGatherer)
}

func NewMetricsWithRegistry(name string, reg prometheus.Registerer, gatherer prometheus.Gatherer) PromMetricsHandler {
	var calculationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_calculations_total", name),
			Help: "Counter for Athena Spark calculations, labeled by session and final status",
		},
		[]string{"instance", "session", "status"},
	)

	var calculationLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_calculation_duration_seconds", name),
			Help:    "Wall time from submission to terminal state, labeled by session and final status",
			Buckets: prometheus.ExponentialBuckets(1, 2, 16),
		},
		[]string{"instance", "session", "status"},
	)

	var stateChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_calculation_state_checks_total", name),
			Help: "Counter for calculation status checks, labeled by the state that was reported",
		},
		[]string{"instance", "state"},
	)

	var pokes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_sensor_pokes_total", name),
			Help: "Counter for sensor pokes, labeled by result",
		},
		[]string{"instance", "result"},
	)

	var stops = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_calculation_stops_total", name),
			Help: "Counter for stop requests sent on kill, labeled by status",
		},
		[]string{"instance", "status"},
	)

	reg.MustRegister(calculationCounter, calculationLatency, stateChecks, pokes, stops)
	return PromMetricsHandler{
		Hist:        calculationLatency,
		Count:       calculationCounter,
		StateChecks: stateChecks,
		Pokes:       pokes,
		Stops:       stops,
		Name:        name,
		gatherer:    gatherer,
		clock:       clockwork.NewRealClock(),
	}
}

// WithClock swaps the clock durations are measured with.
func (p PromMetricsHandler) WithClock(clock clockwork.Clock) PromMetricsHandler {
	p.clock = clock
	return p
}

func (p PromMetricsHandler) BeginObservingCalculation(sessionID string) CalculationObserver {
	clock := p.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &PromCalculationObserver{
		Hist:        p.Hist,
		Count:       p.Count,
		StateChecks: p.StateChecks,
		Name:        p.Name,
		Session:     sessionID,
		clock:       clock,
		started:     clock.Now(),
	}
}

func (p PromMetricsHandler) ObservePoke(result string) {
	p.Pokes.WithLabelValues(p.Name, result).Inc()
}

func (p PromMetricsHandler) ObserveStop(err error) {
	status := SUCCESS
	if err != nil {
		status = ERROR
	}
	p.Stops.WithLabelValues(p.Name, string(status)).Inc()
}

// ExposePort serves /metrics until the listener fails.
func (p PromMetricsHandler) ExposePort(port string) error {
	gatherer := p.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return http.ListenAndServe(port, mux)
}

func (p PromMetricsHandler) GetObservedCount(sessionID string, status Observation) (int, error) {
	var m = &dto.Metric{}
	if err := p.Count.WithLabelValues(p.Name, sessionID, string(status)).Write(m); err != nil {
		return 0, err
	}
	return int(m.Counter.GetValue()), nil
}

func (p PromMetricsHandler) GetObservedStateChecks(state string) (int, error) {
	var m = &dto.Metric{}
	if err := p.StateChecks.WithLabelValues(p.Name, state).Write(m); err != nil {
		return 0, err
	}
	return int(m.Counter.GetValue()), nil
}

func (p *PromCalculationObserver) ObserveState(state string) {
	p.StateChecks.WithLabelValues(p.Name, state).Inc()
}

func (p *PromCalculationObserver) SetError() {
	p.finish(ERROR)
}

func (p *PromCalculationObserver) Finish() {
	p.finish(SUCCESS)
}

func (p *PromCalculationObserver) finish(status Observation) {
	p.once.Do(func() {
		elapsed := p.clock.Since(p.started)
		p.Hist.WithLabelValues(p.Name, p.Session, string(status)).Observe(elapsed.Seconds())
		p.Count.WithLabelValues(p.Name, p.Session, string(status)).Inc()
	})
}
