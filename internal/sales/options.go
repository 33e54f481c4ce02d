package sales

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/group"
)

// Columns names the fields the analyses read.
type Columns struct {
	Product       string `mapstructure:"product" yaml:"product" json:"product"`
	Price         string `mapstructure:"price" yaml:"price" json:"price"`
	Quantity      string `mapstructure:"quantity" yaml:"quantity" json:"quantity"`
	Manager       string `mapstructure:"manager" yaml:"manager" json:"manager"`
	City          string `mapstructure:"city" yaml:"city" json:"city"`
	PaymentMethod string `mapstructure:"payment_method" yaml:"payment_method" json:"payment_method"`
	PurchaseType  string `mapstructure:"purchase_type" yaml:"purchase_type" json:"purchase_type"`
	Date          string `mapstructure:"date" yaml:"date" json:"date"`
}

// DefaultColumns returns the header of the restaurant sales export.
func DefaultColumns() Columns {
	return Columns{
		Product:       "Product",
		Price:         "Price",
		Quantity:      "Quantity",
		Manager:       "Manager",
		City:          "City",
		PaymentMethod: "Payment Method",
		PurchaseType:  "Purchase Type",
		Date:          "Date",
	}
}

// withDefaults fills empty names from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&c.Product, d.Product)
	fill(&c.Price, d.Price)
	fill(&c.Quantity, d.Quantity)
	fill(&c.Manager, d.Manager)
	fill(&c.City, d.City)
	fill(&c.PaymentMethod, d.PaymentMethod)
	fill(&c.PurchaseType, d.PurchaseType)
	fill(&c.Date, d.Date)
	return c
}

// Section names one analysis of the report.
type Section string

const (
	SectionProducts Section = "products"
	SectionCities   Section = "cities"
	SectionManagers Section = "managers"
	SectionChannels Section = "channels"
	SectionPeriods  Section = "periods"
)

// AllSections lists every section in report order.
func AllSections() []Section {
	return []Section{SectionProducts, SectionCities, SectionManagers, SectionChannels, SectionPeriods}
}

// ParseSections validates section names; empty input selects all sections.
func ParseSections(names []string) ([]Section, error) {
	if len(names) == 0 {
		return AllSections(), nil
	}
	var out []Section
	seen := map[Section]bool{}
	for _, n := range names {
		s := Section(strings.ToLower(strings.TrimSpace(n)))
		switch s {
		case SectionProducts, SectionCities, SectionManagers, SectionChannels, SectionPeriods:
		case "all":
			return AllSections(), nil
		default:
			return nil, fmt.Errorf("unknown section: %s (use products|cities|managers|channels|periods|all)", n)
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// Options controls the sales analyses.
type Options struct {
	Columns Columns
	// MonthOffset is the byte offset of the two-digit month in the date column.
	MonthOffset int
	// TopN bounds the top listings.
	TopN int
	// Order fixes the enumeration order of group keys.
	Order group.Order
	// Sections to compute; nil means all.
	Sections []Section
}

// DefaultOptions returns the settings used for the DD-MM-YYYY sales export.
func DefaultOptions() Options {
	return Options{
		Columns:     DefaultColumns(),
		MonthOffset: 3,
		TopN:        3,
		Order:       group.Sorted,
	}
}

func (o Options) wants(s Section) bool {
	if len(o.Sections) == 0 {
		return true
	}
	for _, x := range o.Sections {
		if x == s {
			return true
		}
	}
	return false
}
