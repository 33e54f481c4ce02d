// Package aggregate folds row sequences into numeric totals.
package aggregate

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/salesloom-cli/internal/group"
	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

// Extractor maps a row to the number being summed.
type Extractor func(r table.Row) (float64, error)

// Field parses the value of column as a number.
func Field(column string) Extractor {
	return func(r table.Row) (float64, error) { return r.Number(column) }
}

// Revenue is price * quantity for one row.
func Revenue(priceColumn, quantityColumn string) Extractor {
	return func(r table.Row) (float64, error) {
		p, err := r.Number(priceColumn)
		if err != nil {
			return 0, err
		}
		q, err := r.Number(quantityColumn)
		if err != nil {
			return 0, err
		}
		v := p * q
		if math.IsInf(v, 0) {
			return 0, &table.MalformedFieldError{Column: quantityColumn, Line: r.Line(),
				Value: fmt.Sprintf("%g * %g", p, q), Err: ErrOverflow}
		}
		return v, nil
	}
}

// One counts rows when summed.
func One(table.Row) (float64, error) { return 1, nil }

// ErrOverflow is wrapped by the MalformedFieldError raised when a product or
// running total leaves the float64 range.
var ErrOverflow = errors.New("total overflows float64")

// Sum folds rows left to right with addition. An empty sequence sums to 0.
// Extracted values and the running total must stay finite.
func Sum(rows []table.Row, ex Extractor) (float64, error) {
	acc := 0.0
	for _, r := range rows {
		v, err := ex(r)
		if err != nil {
			return 0, err
		}
		acc += v
		if math.IsNaN(acc) || math.IsInf(acc, 0) {
			return 0, &table.MalformedFieldError{Column: "total", Line: r.Line(), Value: fmt.Sprintf("%g", v), Err: ErrOverflow}
		}
	}
	return acc, nil
}

// Count returns the number of rows as a float, for use alongside sums.
func Count(rows []table.Row) float64 { return float64(len(rows)) }

// Result is one group key with its metrics, in extractor order.
type Result struct {
	Key     string    `json:"key"`
	Size    int       `json:"size"`
	Metrics []float64 `json:"metrics"`
}

// Metric returns the i-th metric, or 0 when out of range.
func (r Result) Metric(i int) float64 {
	if i < 0 || i >= len(r.Metrics) {
		return 0
	}
	return r.Metrics[i]
}

// Summarize computes every extractor for every group, positionally aligned
// with idx.Groups().
func Summarize(idx *group.Index, extractors ...Extractor) ([]Result, error) {
	groups := idx.Groups()
	out := make([]Result, len(groups))
	for i, g := range groups {
		res := Result{Key: g.Key, Size: g.Size(), Metrics: make([]float64, len(extractors))}
		for j, ex := range extractors {
			v, err := Sum(g.Rows, ex)
			if err != nil {
				return nil, err
			}
			res.Metrics[j] = v
		}
		out[i] = res
	}
	return out, nil
}

// ByMetric prefers the result with the strictly larger i-th metric.
func ByMetric(i int) func(a, b Result) bool {
	return func(a, b Result) bool { return a.Metric(i) > b.Metric(i) }
}

// MetricAt selects the i-th metric as a ranking key.
func MetricAt(i int) func(Result) float64 {
	return func(r Result) float64 { return r.Metric(i) }
}
