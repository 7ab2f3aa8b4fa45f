// Package metrics exposes the service counters and the HTTP surface serving them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Recorder counts collected vacancies.
type Recorder struct {
	registry  *prometheus.Registry
	collected prometheus.Counter
}

func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	collected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "job_monitor_vacancies_collected_total",
		Help: "Total number of vacancies persisted by the ingestion pipeline.",
	})

	registry.MustRegister(
		collected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Recorder{registry: registry, collected: collected}
}

func (r *Recorder) RecordVacancyCollected(count int) {
	if count <= 0 {
		return
	}
	r.collected.Add(float64(count))
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }
