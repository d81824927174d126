package results

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/Shobhakumari0502/VirtualClient/internal/vcerrors"
)

// ParseTotals parses a memtier-style totals table:
//
//	Type         Ops/sec     Hits/sec   Misses/sec      Latency       KB/sec
//	Sets         4827.01          ---          ---      2.31600       370.56
//	Gets        48236.67     48236.67         0.00      2.29700      1899.76
//	Totals      53063.68     48236.67         0.00      2.29900      2270.32
//
// Each row yields <type>_ops_per_sec, <type>_latency_ms and <type>_kb_per_sec
// metrics, plus hits/misses where present. Cells containing "---" are
// skipped. At least one row must parse or the output is considered
// unparseable.
func ParseTotals(output string) ([]Metric, error) {
	var metrics []Metric
	inTable := false
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "Type" {
			inTable = true
			continue
		}
		if !inTable || len(fields) != 6 {
			continue
		}
		row := strings.ToLower(fields[0])
		rowMetrics, err := parseRow(row, fields[1:])
		if err != nil {
			return nil, errors.WithStack(&vcerrors.ErrResultsParsingFailed{
				Output:  line,
				Message: err.Error(),
			})
		}
		metrics = append(metrics, rowMetrics...)
	}
	if len(metrics) == 0 {
		return nil, errors.WithStack(&vcerrors.ErrResultsParsingFailed{
			Output:  truncate(output, 200),
			Message: "no totals table found in output",
		})
	}
	return metrics, nil
}

func parseRow(row string, cells []string) ([]Metric, error) {
	names := []string{"ops_per_sec", "hits_per_sec", "misses_per_sec", "latency_ms", "kb_per_sec"}
	units := []string{"ops/s", "ops/s", "ops/s", "ms", "KB/s"}
	var metrics []Metric
	for i, cell := range cells {
		if cell == "---" {
			continue
		}
		value, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, errors.Errorf("cell %q in row %q is not numeric", cell, row)
		}
		metrics = append(metrics, Metric{
			Name:  row + "_" + names[i],
			Value: value,
			Unit:  units[i],
		})
	}
	return metrics, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
