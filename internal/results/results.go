// Package results converts captured benchmark output into metric records and
// emits them to a sink. Parsing and emission are serialized by the
// aggregator: the underlying parser/emitter pair is not guaranteed safe under
// concurrent invocation, so correctness comes from a single mutual-exclusion
// section rather than from making them reentrant.
package results

import (
	"time"
)

// Metric is one name/value/unit tuple extracted from benchmark output.
type Metric struct {
	Name  string
	Value float64
	Unit  string
}

// MetricRecord is the unit of emission: every metric parsed from one
// worker's output, plus context for triage. Ordering across workers is not
// guaranteed; non-interleaved emission per worker is.
type MetricRecord struct {
	ScopeName   string
	Scenario    string
	Start       time.Time
	End         time.Time
	Metrics     []Metric
	Tags        map[string]string
	CommandLine string
}

// Sink receives complete metric records. Implementations need not be safe
// for concurrent use; the aggregator serializes calls.
type Sink interface {
	Record(record MetricRecord)
}
