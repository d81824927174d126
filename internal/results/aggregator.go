package results

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// Aggregator serializes result parsing and metric emission across all
// concurrently-completing workers. The lock is owned by the aggregator
// instance, not package-global, so tests can run aggregators in isolation.
type Aggregator struct {
	ScopeName string
	Scenario  string
	// Tags attached to every emitted record, e.g. the protocol family.
	Tags map[string]string
	Sink Sink

	mu sync.Mutex
}

func NewAggregator(scopeName, scenario string, tags map[string]string, sink Sink) *Aggregator {
	return &Aggregator{
		ScopeName: scopeName,
		Scenario:  scenario,
		Tags:      tags,
		Sink:      sink,
	}
}

// Capture parses one worker's raw output and emits the resulting record.
// Only the parse-and-emit step holds the lock; process execution is never
// serialized by this path.
func (a *Aggregator) Capture(rawOutput, commandLine string, start, end time.Time) error {
	if strings.TrimSpace(rawOutput) == "" {
		return errors.WithStack(&vcerrors.ErrInvalidResults{
			Message: "captured output was empty",
		})
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	metrics, err := ParseTotals(rawOutput)
	if err != nil {
		return err
	}
	a.Sink.Record(MetricRecord{
		ScopeName:   a.ScopeName,
		Scenario:    a.Scenario,
		Start:       start,
		End:         end,
		Metrics:     metrics,
		Tags:        a.Tags,
		CommandLine: commandLine,
	})
	return nil
}
