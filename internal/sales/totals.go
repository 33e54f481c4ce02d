package sales

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/aggregate"
	"github.com/KaramelBytes/salesloom-cli/internal/filter"
	"github.com/KaramelBytes/salesloom-cli/internal/group"
	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

// Metric is the per-group figure used by GroupTotals.
type Metric string

const (
	MetricQuantity Metric = "quantity"
	MetricRevenue  Metric = "revenue"
	MetricCount    Metric = "count"
)

// ParseMetric accepts quantity, revenue or count.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricQuantity, MetricRevenue, MetricCount:
		return m, nil
	case "":
		return MetricRevenue, nil
	default:
		return "", fmt.Errorf("unknown metric: %s (use quantity|revenue|count)", s)
	}
}

// Extractor returns the row-level extractor for m.
func (m Metric) Extractor(c Columns) aggregate.Extractor {
	c = c.withDefaults()
	switch m {
	case MetricQuantity:
		return aggregate.Field(c.Quantity)
	case MetricCount:
		return aggregate.One
	default:
		return aggregate.Revenue(c.Price, c.Quantity)
	}
}

// GroupTotals groups the table by column and sums metric per group, in the
// index order selected by opt.Order. Month is accepted as a derived column
// keyed on the date column's month token.
func GroupTotals(t *table.Table, column string, metric Metric, opt Options) ([]aggregate.Result, error) {
	opt.Columns = opt.Columns.withDefaults()
	idx, err := indexFor(t, column, opt)
	if err != nil {
		return nil, err
	}
	return aggregate.Summarize(idx, metric.Extractor(opt.Columns))
}

// Distinct returns the group keys of column with their row counts.
func Distinct(t *table.Table, column string, opt Options) ([]KeyValue, error) {
	opt.Columns = opt.Columns.withDefaults()
	idx, err := indexFor(t, column, opt)
	if err != nil {
		return nil, err
	}
	out := make([]KeyValue, 0, idx.Len())
	for _, g := range idx.Groups() {
		out = append(out, KeyValue{Key: g.Key, Value: aggregate.Count(g.Rows)})
	}
	return out, nil
}

func indexFor(t *table.Table, column string, opt Options) (*group.Index, error) {
	if strings.EqualFold(column, "month") && !t.HasColumn(column) {
		return group.BuildBy(t.Rows(), "Month", monthKey(opt), group.Sorted)
	}
	if err := t.Require(column); err != nil {
		return nil, err
	}
	return group.Build(t.Rows(), column, opt.Order)
}

func monthKey(opt Options) filter.KeyFunc {
	return filter.MonthOf(opt.Columns.Date, opt.MonthOffset)
}
