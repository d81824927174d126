package results

import (
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

var metricLabels = []string{"scope", "scenario", "metric", "unit"}

// PrometheusSink publishes each metric of every record as a gauge in a
// caller-owned registry, labelled by scope, scenario, metric name and unit.
type PrometheusSink struct {
	values *prometheus.GaugeVec
}

func NewPrometheusSink(registry prometheus.Registerer) (*PrometheusSink, error) {
	values := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "virtualclient_benchmark_value",
			Help: "Most recent value of each benchmark metric.",
		},
		metricLabels,
	)
	if err := registry.Register(values); err != nil {
		return nil, err
	}
	return &PrometheusSink{values: values}, nil
}

func (s *PrometheusSink) Record(record MetricRecord) {
	for _, metric := range record.Metrics {
		s.values.WithLabelValues(record.ScopeName, record.Scenario, metric.Name, metric.Unit).Set(metric.Value)
	}
}

// LogSink writes records to the standard logger. Used when no metrics
// backend is configured.
type LogSink struct{}

func (s *LogSink) Record(record MetricRecord) {
	entry := log.WithFields(log.Fields{
		"scope":    record.ScopeName,
		"scenario": record.Scenario,
		"start":    record.Start,
		"end":      record.End,
		"command":  record.CommandLine,
	})
	for k, v := range record.Tags {
		entry = entry.WithField(k, v)
	}
	for _, metric := range record.Metrics {
		entry.Infof("%s = %v %s", metric.Name, metric.Value, metric.Unit)
	}
}

// MultiSink fans one record out to several sinks.
type MultiSink []Sink

func (s MultiSink) Record(record MetricRecord) {
	for _, sink := range s {
		sink.Record(record)
	}
}
