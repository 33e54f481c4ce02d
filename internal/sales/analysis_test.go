package sales

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/KaramelBytes/salesloom-cli/internal/aggregate"
	"github.com/KaramelBytes/salesloom-cli/internal/group"
	"github.com/KaramelBytes/salesloom-cli/internal/rank"
	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

var salesHeader = []string{"Order ID", "Date", "Product", "Price", "Quantity", "Purchase Type", "Payment Method", "Manager", "City"}

var salesRecords = [][]string{
	{"1", "07-11-2022", "Burgers", "12.99", "10", "Online", "Gift Card", "Tom Jackson", "London"},
	{"2", "08-11-2022", "Fries", "3.49", "20", "Drive-thru", "Credit Card", "Pablo Perez", "Madrid"},
	{"3", "09-11-2022", "Beverages", "2.95", "30", "In-store", "Cash", "Joao Silva", "Lisbon"},
	{"4", "02-12-2022", "Burgers", "12.99", "5", "Online", "Credit Card", "Pablo Perez", "Madrid"},
	{"5", "15-12-2022", "Fries", "3.49", "15", "Drive-thru", "Credit Card", "Tom Jackson", "London"},
	{"6", "21-12-2022", "Beverages", "2.95", "10", "In-store", "Cash", "Joao Silva", "Lisbon"},
	{"7", "22-12-2022", "Burgers", "12.99", "8", "Online", "Credit Card", "Tom Jackson", "London"},
}

func salesTable(t *testing.T) *table.Table {
	t.Helper()
	tb, err := table.New(salesHeader, salesRecords)
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tb
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestEndToEndScenario(t *testing.T) {
	tb, err := table.New([]string{"Product", "Quantity", "Price"}, [][]string{
		{"Burger", "2", "5.00"},
		{"Burger", "3", "5.00"},
		{"Fries", "1", "2.50"},
	})
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	idx, err := group.Build(tb.Rows(), "Product", group.FirstSeen)
	if err != nil {
		t.Fatalf("group.Build: %v", err)
	}
	burger, _ := idx.Lookup("Burger")
	fries, _ := idx.Lookup("Fries")
	if burger.Size() != 2 || fries.Size() != 1 {
		t.Fatalf("group sizes: Burger=%d Fries=%d", burger.Size(), fries.Size())
	}
	res, err := GroupTotals(tb, "Product", MetricRevenue, Options{Order: group.FirstSeen})
	if err != nil {
		t.Fatalf("GroupTotals: %v", err)
	}
	if res[0].Key != "Burger" || !near(res[0].Metric(0), 25) || res[1].Key != "Fries" || !near(res[1].Metric(0), 2.5) {
		t.Fatalf("unexpected revenue totals: %+v", res)
	}
	top, err := rank.FindBest(res, func(a, b aggregate.Result) bool { return a.Metric(0) > b.Metric(0) })
	if err != nil || top.Key != "Burger" {
		t.Fatalf("FindBest = %+v, %v", top, err)
	}
}

func TestAnalyzeProducts(t *testing.T) {
	rep, err := Analyze("sales.csv", salesTable(t), Options{Sections: []Section{SectionProducts}, TopN: 2, Order: group.Sorted, MonthOffset: 3})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	p := rep.Products
	if p == nil || rep.Cities != nil {
		t.Fatalf("expected only the products section: %+v", rep)
	}
	var keys []string
	for _, tt := range p.Totals {
		keys = append(keys, tt.Product)
	}
	if want := []string{"Beverages", "Burgers", "Fries"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("product order = %v, want %v", keys, want)
	}
	if p.BestByQuantity.Product != "Beverages" || !near(p.BestByQuantity.Quantity, 40) {
		t.Fatalf("best by quantity = %+v", p.BestByQuantity)
	}
	if p.BestByRevenue.Product != "Burgers" || !near(p.BestByRevenue.Revenue, 12.99*23) {
		t.Fatalf("best by revenue = %+v", p.BestByRevenue)
	}
	if len(p.TopByQuantity) != 2 || p.TopByQuantity[0].Product != "Beverages" || p.TopByQuantity[1].Product != "Fries" {
		t.Fatalf("top by quantity = %+v", p.TopByQuantity)
	}
	if len(p.Prices) != 3 || p.Prices[1].Product != "Burgers" || !reflect.DeepEqual(p.Prices[1].Prices, []string{"12.99"}) {
		t.Fatalf("prices = %+v", p.Prices)
	}
}

func TestAnalyzeCitiesAndPeriods(t *testing.T) {
	opt := DefaultOptions()
	opt.Sections = []Section{SectionCities, SectionPeriods}
	rep, err := Analyze("sales.csv", salesTable(t), opt)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	c := rep.Cities
	if !reflect.DeepEqual(c.Months, []string{"11", "12"}) {
		t.Fatalf("months = %v", c.Months)
	}
	london := 12.99*10 + 3.49*15 + 12.99*8
	if c.MostProfitable.Key != "London" || !near(c.MostProfitable.Value, london) {
		t.Fatalf("most profitable = %+v", c.MostProfitable)
	}
	for i, kv := range c.Revenue {
		if c.AverageMonthly[i].Key != kv.Key || !near(c.AverageMonthly[i].Value, kv.Value/2) {
			t.Fatalf("average monthly misaligned at %d: %+v vs %+v", i, c.AverageMonthly[i], kv)
		}
	}
	if len(c.Monthly) != 6 {
		t.Fatalf("expected 3 cities x 2 months, got %d", len(c.Monthly))
	}
	for _, m := range c.Monthly {
		if m.City == "London" && m.Month == "11" && !near(m.Revenue, 129.9) {
			t.Fatalf("London November = %v", m.Revenue)
		}
	}

	p := rep.Periods
	nov := 12.99*10 + 3.49*20 + 2.95*30
	dec := 12.99*5 + 3.49*15 + 2.95*10 + 12.99*8
	if len(p.Revenue) != 2 || !near(p.Revenue[0].Value, nov) || !near(p.Revenue[1].Value, dec) {
		t.Fatalf("monthly revenue = %+v", p.Revenue)
	}
	if !near(p.Total, nov+dec) {
		t.Fatalf("total = %v", p.Total)
	}
	if len(p.Changes) != 1 || !near(p.Changes[0].Percent, (dec-nov)/nov*100) {
		t.Fatalf("changes = %+v", p.Changes)
	}
}

func TestAnalyzeManagersAndChannels(t *testing.T) {
	opt := DefaultOptions()
	opt.Sections = []Section{SectionManagers, SectionChannels}
	rep, err := Analyze("sales.csv", salesTable(t), opt)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.Managers.Best.Key != "Tom Jackson" {
		t.Fatalf("best manager = %+v", rep.Managers.Best)
	}
	if rep.Channels.PreferredPayment.Key != "Credit Card" || rep.Channels.PreferredPayment.Value != 4 {
		t.Fatalf("preferred payment = %+v", rep.Channels.PreferredPayment)
	}
	// Online appears 3 times, others twice
	if rep.Channels.PreferredPurchase.Key != "Online" {
		t.Fatalf("preferred purchase = %+v", rep.Channels.PreferredPurchase)
	}
}

func TestAnalyzeMalformedQuantity(t *testing.T) {
	cases := []struct {
		name, price, quantity string
	}{
		{"word", "3.49", "lots"},
		{"nan", "3.49", "NaN"},
		{"inf", "3.49", "Inf"},
		{"out of range", "3.49", "1e400"},
		{"revenue overflow", "1e200", "1e200"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs := append([][]string{}, salesRecords...)
			recs = append(recs, []string{"8", "23-12-2022", "Fries", tc.price, tc.quantity, "Online", "Cash", "Tom Jackson", "London"})
			tb, _ := table.New(salesHeader, recs)
			rep, err := Analyze("bad.csv", tb, DefaultOptions())
			if !errors.Is(err, table.ErrMalformedField) {
				t.Fatalf("expected ErrMalformedField, got %v (report %+v)", err, rep)
			}
		})
	}
}

func TestAnalyzeMissingColumn(t *testing.T) {
	tb, _ := table.New([]string{"Product", "Price", "Quantity"}, [][]string{{"Fries", "1", "1"}})
	_, err := Analyze("slim.csv", tb, DefaultOptions())
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	opt := DefaultOptions()
	opt.Sections = []Section{SectionProducts}
	if _, err := Analyze("slim.csv", tb, opt); err != nil {
		t.Fatalf("products only should succeed: %v", err)
	}
}

func TestAnalyzeEmptyTable(t *testing.T) {
	tb, _ := table.New(salesHeader, nil)
	rep, err := Analyze("empty.csv", tb, DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if rep.Products != nil || len(rep.Warnings) == 0 {
		t.Fatalf("expected warning-only report: %+v", rep)
	}
}

func TestGroupTotalsAndDistinct(t *testing.T) {
	tb := salesTable(t)
	res, err := GroupTotals(tb, "Month", MetricCount, DefaultOptions())
	if err != nil {
		t.Fatalf("GroupTotals: %v", err)
	}
	if len(res) != 2 || res[0].Key != "11" || res[0].Metric(0) != 3 || res[1].Metric(0) != 4 {
		t.Fatalf("month counts = %+v", res)
	}
	if _, err := GroupTotals(tb, "Region", MetricCount, DefaultOptions()); !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	d, err := Distinct(tb, "City", DefaultOptions())
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	want := []KeyValue{{Key: "Lisbon", Value: 2}, {Key: "London", Value: 3}, {Key: "Madrid", Value: 2}}
	if !reflect.DeepEqual(d, want) {
		t.Fatalf("Distinct = %+v, want %+v", d, want)
	}
}

func TestParseHelpers(t *testing.T) {
	if s, err := ParseSections(nil); err != nil || len(s) != 5 {
		t.Fatalf("ParseSections(nil) = %v, %v", s, err)
	}
	if s, err := ParseSections([]string{"Cities", "cities", "periods"}); err != nil || !reflect.DeepEqual(s, []Section{SectionCities, SectionPeriods}) {
		t.Fatalf("ParseSections = %v, %v", s, err)
	}
	if _, err := ParseSections([]string{"weather"}); err == nil {
		t.Fatalf("expected unknown section error")
	}
	if m, err := ParseMetric(""); err != nil || m != MetricRevenue {
		t.Fatalf("ParseMetric(\"\") = %v, %v", m, err)
	}
	if _, err := ParseMetric("profit"); err == nil {
		t.Fatalf("expected unknown metric error")
	}
}

func TestMarkdown(t *testing.T) {
	rep, err := Analyze("sales.csv", salesTable(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[SALES SUMMARY]",
		"File: sales.csv",
		"Rows: 7",
		"[PRODUCTS]",
		"Best seller by revenue: Burgers ($298.77)",
		"[CITIES]",
		"Most profitable: London",
		"[MANAGERS]",
		"[CHANNELS]",
		"Preferred payment method: Credit Card (4 records)",
		"[PERIODS]",
		"Month 11 → 12:",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestFormatting(t *testing.T) {
	if got := Money(25); got != "$25.00" {
		t.Fatalf("Money(25) = %q", got)
	}
	if got := Money(2.675); got != "$2.68" {
		t.Fatalf("Money(2.675) = %q", got)
	}
	if got := Money(-3.5); got != "-$3.50" {
		t.Fatalf("Money(-3.5) = %q", got)
	}
	if got := Percent(-12.345); got != "-12.35 %" {
		t.Fatalf("Percent(-12.345) = %q", got)
	}
	if got := Percent(4); got != "+4.00 %" {
		t.Fatalf("Percent(4) = %q", got)
	}
	if got := Units(40); got != "40.00" {
		t.Fatalf("Units(40) = %q", got)
	}
}
