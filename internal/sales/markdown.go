package sales

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats v as a dollar amount with two decimals, rounding half away
// from zero on the decimal value rather than the binary float.
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Units formats a quantity with two decimals.
func Units(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Percent formats a signed percentage with two decimals, e.g. "+12.50 %".
func Percent(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if !d.IsNegative() {
		sign = "+"
	}
	return sign + d.StringFixed(2) + " %"
}

// Markdown renders the report as compact text sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SALES SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Header)))
	if len(r.Header) > 0 {
		b.WriteString("Header: " + strings.Join(r.Header, " | ") + "\n")
	}

	if p := r.Products; p != nil {
		b.WriteString("\n[PRODUCTS]\n")
		b.WriteString(fmt.Sprintf("- Best seller by quantity: %s (%s units sold)\n", p.BestByQuantity.Product, Units(p.BestByQuantity.Quantity)))
		b.WriteString(fmt.Sprintf("- Best seller by revenue: %s (%s)\n", p.BestByRevenue.Product, Money(p.BestByRevenue.Revenue)))
		b.WriteString(fmt.Sprintf("- Top %d by quantity:\n", len(p.TopByQuantity)))
		for i, t := range p.TopByQuantity {
			b.WriteString(fmt.Sprintf("  %d. %s (%s units sold)\n", i+1, t.Product, Units(t.Quantity)))
		}
		b.WriteString(fmt.Sprintf("- Top %d by revenue:\n", len(p.TopByRevenue)))
		for i, t := range p.TopByRevenue {
			b.WriteString(fmt.Sprintf("  %d. %s (%s revenue)\n", i+1, t.Product, Money(t.Revenue)))
		}
		b.WriteString("\n| Product | Quantity | Revenue | Unit prices |\n| --- | --- | --- | --- |\n")
		for i, t := range p.Totals {
			prices := ""
			if i < len(p.Prices) {
				prices = strings.Join(p.Prices[i].Prices, ", ")
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n", safeVal(t.Product), Units(t.Quantity), Money(t.Revenue), prices))
		}
	}

	if c := r.Cities; c != nil {
		b.WriteString("\n[CITIES]\n")
		b.WriteString(fmt.Sprintf("- Most profitable: %s (%s)\n", c.MostProfitable.Key, Money(c.MostProfitable.Value)))
		b.WriteString(fmt.Sprintf("- Months recorded: %d (%s)\n", len(c.Months), strings.Join(c.Months, ", ")))
		b.WriteString("\n| City | Revenue | Avg monthly |\n| --- | --- | --- |\n")
		for i, kv := range c.Revenue {
			avg := 0.0
			if i < len(c.AverageMonthly) {
				avg = c.AverageMonthly[i].Value
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s |\n", safeVal(kv.Key), Money(kv.Value), Money(avg)))
		}
		if len(c.Monthly) > 0 {
			b.WriteString("\nMonthly revenue by city:\n")
			for _, m := range c.Monthly {
				b.WriteString(fmt.Sprintf("- %s: %s (Month %s)\n", m.City, Money(m.Revenue), m.Month))
			}
		}
	}

	if m := r.Managers; m != nil {
		b.WriteString("\n[MANAGERS]\n")
		b.WriteString(fmt.Sprintf("- Best performing: %s (%s)\n", m.Best.Key, Money(m.Best.Value)))
		for _, kv := range m.Revenue {
			b.WriteString(fmt.Sprintf("- %s: %s generated\n", kv.Key, Money(kv.Value)))
		}
	}

	if ch := r.Channels; ch != nil {
		b.WriteString("\n[CHANNELS]\n")
		b.WriteString(fmt.Sprintf("- Preferred payment method: %s (%d records)\n", ch.PreferredPayment.Key, int(ch.PreferredPayment.Value)))
		for _, kv := range ch.Payment {
			b.WriteString(fmt.Sprintf("  • %s: %d records\n", kv.Key, int(kv.Value)))
		}
		b.WriteString(fmt.Sprintf("- Preferred purchase type: %s (%d records)\n", ch.PreferredPurchase.Key, int(ch.PreferredPurchase.Value)))
		for _, kv := range ch.Purchase {
			b.WriteString(fmt.Sprintf("  • %s: %d records\n", kv.Key, int(kv.Value)))
		}
	}

	if p := r.Periods; p != nil {
		b.WriteString("\n[PERIODS]\n")
		for _, kv := range p.Revenue {
			b.WriteString(fmt.Sprintf("- Month %s: %s generated\n", kv.Key, Money(kv.Value)))
		}
		b.WriteString(fmt.Sprintf("- Total revenue: %s\n", Money(p.Total)))
		for _, c := range p.Changes {
			b.WriteString(fmt.Sprintf("- Month %s → %s: %s\n", c.From, c.To, Percent(c.Percent)))
		}
	}

	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
