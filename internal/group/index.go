// Package group partitions rows by the distinct values of a column.
//
// An Index fixes the enumeration order of the distinct values once, when it
// is built. Every per-group result (totals, counts, report rows) must be
// derived by mapping over Index.Groups so keys and results stay aligned by
// position; never enumerate the distinct values a second time.
package group

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/salesloom-cli/internal/filter"
	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

// Order selects how the distinct values are enumerated.
type Order int

const (
	// FirstSeen enumerates values in order of first appearance.
	FirstSeen Order = iota
	// Sorted enumerates values in ascending lexical order.
	Sorted
)

// ParseOrder maps "first-seen" and "sorted" to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "first-seen", "first_seen":
		return FirstSeen, nil
	case "sorted", "sort":
		return Sorted, nil
	default:
		return FirstSeen, fmt.Errorf("unknown group order: %s (use first-seen|sorted)", s)
	}
}

func (o Order) String() string {
	if o == Sorted {
		return "sorted"
	}
	return "first-seen"
}

// Group is the subsequence of rows sharing one key.
type Group struct {
	Key  string
	Rows []table.Row
}

// Size returns the number of rows in the group.
func (g Group) Size() int { return len(g.Rows) }

// Index is the canonical ordered (key, rows) sequence for one column.
type Index struct {
	name   string
	groups []Group
	pos    map[string]int
}

// Build groups rows by the raw value of column.
func Build(rows []table.Row, column string, order Order) (*Index, error) {
	return BuildBy(rows, column, filter.Column(column), order)
}

// BuildBy groups rows by a derived key. name labels the index in results
// (e.g. "Month").
func BuildBy(rows []table.Row, name string, key filter.KeyFunc, order Order) (*Index, error) {
	distinct := newOrderedMap[string, struct{}]()
	for _, r := range rows {
		k, err := key(r)
		if err != nil {
			return nil, err
		}
		distinct.Set(k, struct{}{})
	}
	keys := distinct.Keys()
	if order == Sorted {
		sort.Strings(keys)
	}

	byKey := filter.ByKey(key)
	idx := &Index{name: name, groups: make([]Group, 0, len(keys)), pos: make(map[string]int, len(keys))}
	for _, k := range keys {
		sub, err := byKey(k)(rows)
		if err != nil {
			return nil, err
		}
		idx.pos[k] = len(idx.groups)
		idx.groups = append(idx.groups, Group{Key: k, Rows: sub})
	}
	return idx, nil
}

// Name is the column (or derived key name) the index was built on.
func (x *Index) Name() string { return x.name }

// Len returns the number of distinct keys.
func (x *Index) Len() int { return len(x.groups) }

// Keys returns the distinct keys in index order.
func (x *Index) Keys() []string {
	out := make([]string, len(x.groups))
	for i, g := range x.groups {
		out[i] = g.Key
	}
	return out
}

// Groups returns the groups in index order. The slice is a copy.
func (x *Index) Groups() []Group {
	return append([]Group(nil), x.groups...)
}

// Lookup returns the group for key.
func (x *Index) Lookup(key string) (Group, bool) {
	i, ok := x.pos[key]
	if !ok {
		return Group{}, false
	}
	return x.groups[i], true
}
