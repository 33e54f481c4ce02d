// Package sales runs the restaurant sales analyses over a sanitized table.
// Each analysis builds one group index per column and derives every result
// for that column from it.
package sales

import (
	"fmt"

	"github.com/KaramelBytes/salesloom-cli/internal/aggregate"
	"github.com/KaramelBytes/salesloom-cli/internal/filter"
	"github.com/KaramelBytes/salesloom-cli/internal/group"
	"github.com/KaramelBytes/salesloom-cli/internal/rank"
	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

// Report collects the computed sections for one dataset.
type Report struct {
	Name     string          `json:"name"`
	Rows     int             `json:"rows"`
	Header   []string        `json:"header"`
	Products *ProductSummary `json:"products,omitempty"`
	Cities   *CitySummary    `json:"cities,omitempty"`
	Managers *ManagerSummary `json:"managers,omitempty"`
	Channels *ChannelSummary `json:"channels,omitempty"`
	Periods  *PeriodSummary  `json:"periods,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

// KeyValue is a group key with one metric.
type KeyValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// ProductTotal is the quantity sold and revenue for one product.
type ProductTotal struct {
	Product  string  `json:"product"`
	Quantity float64 `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// PriceSet lists the distinct unit prices seen for a product.
type PriceSet struct {
	Product string   `json:"product"`
	Prices  []string `json:"prices"`
}

type ProductSummary struct {
	Totals         []ProductTotal `json:"totals"`
	BestByQuantity ProductTotal   `json:"best_by_quantity"`
	BestByRevenue  ProductTotal   `json:"best_by_revenue"`
	TopByQuantity  []ProductTotal `json:"top_by_quantity"`
	TopByRevenue   []ProductTotal `json:"top_by_revenue"`
	Prices         []PriceSet     `json:"prices"`
}

// CityMonth is the revenue of one city within one month.
type CityMonth struct {
	City    string  `json:"city"`
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

type CitySummary struct {
	Revenue        []KeyValue  `json:"revenue"`
	Months         []string    `json:"months"`
	AverageMonthly []KeyValue  `json:"average_monthly"`
	MostProfitable KeyValue    `json:"most_profitable"`
	Monthly        []CityMonth `json:"monthly"`
}

type ManagerSummary struct {
	Revenue []KeyValue `json:"revenue"`
	Best    KeyValue   `json:"best"`
}

type ChannelSummary struct {
	Payment           []KeyValue `json:"payment"`
	PreferredPayment  KeyValue   `json:"preferred_payment"`
	Purchase          []KeyValue `json:"purchase"`
	PreferredPurchase KeyValue   `json:"preferred_purchase"`
}

// MonthChange is the revenue change between two consecutive recorded months.
type MonthChange struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	Percent float64 `json:"percent"`
}

type PeriodSummary struct {
	Revenue []KeyValue    `json:"revenue"`
	Total   float64       `json:"total"`
	Changes []MonthChange `json:"changes"`
}

// Analyze computes the selected sections over a sanitized table.
func Analyze(name string, t *table.Table, opt Options) (*Report, error) {
	opt.Columns = opt.Columns.withDefaults()
	rep := &Report{Name: name, Rows: t.Len(), Header: t.Header()}
	if t.Len() == 0 {
		rep.Warnings = append(rep.Warnings, "dataset has no rows")
		return rep, nil
	}
	c := opt.Columns
	rows := t.Rows()
	var err error

	if opt.wants(SectionProducts) {
		if err := t.Require(c.Product, c.Price, c.Quantity); err != nil {
			return nil, fmt.Errorf("products: %w", err)
		}
		if rep.Products, err = analyzeProducts(rows, opt); err != nil {
			return nil, fmt.Errorf("products: %w", err)
		}
	}
	if opt.wants(SectionCities) {
		if err := t.Require(c.City, c.Price, c.Quantity, c.Date); err != nil {
			return nil, fmt.Errorf("cities: %w", err)
		}
		if rep.Cities, err = analyzeCities(rows, opt); err != nil {
			return nil, fmt.Errorf("cities: %w", err)
		}
	}
	if opt.wants(SectionManagers) {
		if err := t.Require(c.Manager, c.Price, c.Quantity); err != nil {
			return nil, fmt.Errorf("managers: %w", err)
		}
		if rep.Managers, err = analyzeManagers(rows, opt); err != nil {
			return nil, fmt.Errorf("managers: %w", err)
		}
	}
	if opt.wants(SectionChannels) {
		if err := t.Require(c.PaymentMethod, c.PurchaseType); err != nil {
			return nil, fmt.Errorf("channels: %w", err)
		}
		if rep.Channels, err = analyzeChannels(rows, opt); err != nil {
			return nil, fmt.Errorf("channels: %w", err)
		}
	}
	if opt.wants(SectionPeriods) {
		if err := t.Require(c.Date, c.Price, c.Quantity); err != nil {
			return nil, fmt.Errorf("periods: %w", err)
		}
		if rep.Periods, err = analyzePeriods(rows, opt); err != nil {
			return nil, fmt.Errorf("periods: %w", err)
		}
		if len(rep.Periods.Revenue) < 2 {
			rep.Warnings = append(rep.Warnings, "fewer than two months recorded; no month-over-month change")
		}
	}
	return rep, nil
}

func analyzeProducts(rows []table.Row, opt Options) (*ProductSummary, error) {
	c := opt.Columns
	idx, err := group.Build(rows, c.Product, opt.Order)
	if err != nil {
		return nil, err
	}
	res, err := aggregate.Summarize(idx, aggregate.Field(c.Quantity), aggregate.Revenue(c.Price, c.Quantity))
	if err != nil {
		return nil, err
	}
	totals := make([]ProductTotal, len(res))
	for i, r := range res {
		totals[i] = ProductTotal{Product: r.Key, Quantity: r.Metric(0), Revenue: r.Metric(1)}
	}
	quantity := func(p ProductTotal) float64 { return p.Quantity }
	revenue := func(p ProductTotal) float64 { return p.Revenue }

	s := &ProductSummary{Totals: totals}
	if s.BestByQuantity, err = rank.FindBest(totals, func(a, b ProductTotal) bool { return a.Quantity > b.Quantity }); err != nil {
		return nil, err
	}
	if s.BestByRevenue, err = rank.FindBest(totals, func(a, b ProductTotal) bool { return a.Revenue > b.Revenue }); err != nil {
		return nil, err
	}
	s.TopByQuantity = rank.TopN(totals, quantity, opt.TopN)
	s.TopByRevenue = rank.TopN(totals, revenue, opt.TopN)

	for _, g := range idx.Groups() {
		prices, err := group.Build(g.Rows, c.Price, group.Sorted)
		if err != nil {
			return nil, err
		}
		s.Prices = append(s.Prices, PriceSet{Product: g.Key, Prices: prices.Keys()})
	}
	return s, nil
}

func analyzeCities(rows []table.Row, opt Options) (*CitySummary, error) {
	c := opt.Columns
	revenue := aggregate.Revenue(c.Price, c.Quantity)
	key := monthKey(opt)

	months, err := group.BuildBy(rows, "Month", key, group.Sorted)
	if err != nil {
		return nil, err
	}
	cities, err := group.Build(rows, c.City, opt.Order)
	if err != nil {
		return nil, err
	}
	res, err := aggregate.Summarize(cities, revenue)
	if err != nil {
		return nil, err
	}

	s := &CitySummary{Months: months.Keys()}
	s.Revenue = keyValues(res, 0)
	n := float64(months.Len())
	for _, kv := range s.Revenue {
		avg := 0.0
		if n > 0 {
			avg = kv.Value / n
		}
		s.AverageMonthly = append(s.AverageMonthly, KeyValue{Key: kv.Key, Value: avg})
	}
	if s.MostProfitable, err = best(s.Revenue); err != nil {
		return nil, err
	}

	byCity := filter.ByColumn(c.City)
	byMonth := filter.ByKey(key)
	for _, city := range cities.Keys() {
		for _, m := range months.Keys() {
			sub, err := filter.Chain(byCity(city), byMonth(m))(rows)
			if err != nil {
				return nil, err
			}
			v, err := aggregate.Sum(sub, revenue)
			if err != nil {
				return nil, err
			}
			s.Monthly = append(s.Monthly, CityMonth{City: city, Month: m, Revenue: v})
		}
	}
	return s, nil
}

func analyzeManagers(rows []table.Row, opt Options) (*ManagerSummary, error) {
	c := opt.Columns
	idx, err := group.Build(rows, c.Manager, opt.Order)
	if err != nil {
		return nil, err
	}
	res, err := aggregate.Summarize(idx, aggregate.Revenue(c.Price, c.Quantity))
	if err != nil {
		return nil, err
	}
	s := &ManagerSummary{Revenue: keyValues(res, 0)}
	if s.Best, err = best(s.Revenue); err != nil {
		return nil, err
	}
	return s, nil
}

func analyzeChannels(rows []table.Row, opt Options) (*ChannelSummary, error) {
	c := opt.Columns
	count := func(column string) ([]KeyValue, KeyValue, error) {
		idx, err := group.Build(rows, column, opt.Order)
		if err != nil {
			return nil, KeyValue{}, err
		}
		res, err := aggregate.Summarize(idx, aggregate.One)
		if err != nil {
			return nil, KeyValue{}, err
		}
		kv := keyValues(res, 0)
		top, err := best(kv)
		return kv, top, err
	}
	s := &ChannelSummary{}
	var err error
	if s.Payment, s.PreferredPayment, err = count(c.PaymentMethod); err != nil {
		return nil, err
	}
	if s.Purchase, s.PreferredPurchase, err = count(c.PurchaseType); err != nil {
		return nil, err
	}
	return s, nil
}

func analyzePeriods(rows []table.Row, opt Options) (*PeriodSummary, error) {
	c := opt.Columns
	months, err := group.BuildBy(rows, "Month", monthKey(opt), group.Sorted)
	if err != nil {
		return nil, err
	}
	res, err := aggregate.Summarize(months, aggregate.Revenue(c.Price, c.Quantity))
	if err != nil {
		return nil, err
	}
	s := &PeriodSummary{Revenue: keyValues(res, 0)}
	for i, kv := range s.Revenue {
		s.Total += kv.Value
		if i == 0 {
			continue
		}
		prev := s.Revenue[i-1]
		if prev.Value == 0 {
			continue
		}
		s.Changes = append(s.Changes, MonthChange{
			From:    prev.Key,
			To:      kv.Key,
			Percent: (kv.Value - prev.Value) / prev.Value * 100,
		})
	}
	return s, nil
}

func keyValues(res []aggregate.Result, metric int) []KeyValue {
	out := make([]KeyValue, len(res))
	for i, r := range res {
		out[i] = KeyValue{Key: r.Key, Value: r.Metric(metric)}
	}
	return out
}

func best(kv []KeyValue) (KeyValue, error) {
	return rank.FindBest(kv, func(a, b KeyValue) bool { return a.Value > b.Value })
}
