package table

import "strings"

// Normalize collapses every run of whitespace into a single space and trims
// both ends, e.g. "   Hello   World!  " -> "Hello World!".
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Sanitize returns a new table with header names and every value normalized.
// Applying it twice yields the same table as applying it once.
func Sanitize(t *Table) (*Table, error) {
	if t == nil {
		return New(nil, nil)
	}
	header := t.Header()
	clean := make([]string, len(header))
	for i, h := range header {
		clean[i] = Normalize(h)
	}
	records := make([][]string, 0, t.Len())
	for _, r := range t.rows {
		rec := make([]string, len(header))
		for i, h := range header {
			rec[i] = Normalize(r.fields[h])
		}
		records = append(records, rec)
	}
	return New(clean, records)
}
