package group

import (
	"errors"
	"reflect"
	"testing"

	"github.com/KaramelBytes/salesloom-cli/internal/filter"
	"github.com/KaramelBytes/salesloom-cli/internal/table"
)

func salesRows(t *testing.T) []table.Row {
	t.Helper()
	tb, err := table.New([]string{"Product", "City", "Date"}, [][]string{
		{"Fries", "Madrid", "07-11-2022"},
		{"Burger", "Lisbon", "08-11-2022"},
		{"Fries", "Lisbon", "02-12-2022"},
		{"Beverages", "Madrid", "15-12-2022"},
		{"Burger", "Berlin", "21-11-2022"},
		{"Burger", "Lisbon", "22-12-2022"},
	})
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tb.Rows()
}

func TestBuildFirstSeenOrder(t *testing.T) {
	idx, err := Build(salesRows(t), "Product", FirstSeen)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := []string{"Fries", "Burger", "Beverages"}; !reflect.DeepEqual(idx.Keys(), want) {
		t.Fatalf("keys = %v, want %v", idx.Keys(), want)
	}
	if idx.Name() != "Product" {
		t.Fatalf("unexpected name %q", idx.Name())
	}
}

func TestBuildSortedOrder(t *testing.T) {
	idx, err := Build(salesRows(t), "City", Sorted)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if want := []string{"Berlin", "Lisbon", "Madrid"}; !reflect.DeepEqual(idx.Keys(), want) {
		t.Fatalf("keys = %v, want %v", idx.Keys(), want)
	}
}

func TestGroupsPartitionRows(t *testing.T) {
	rows := salesRows(t)
	for _, col := range []string{"Product", "City", "Date"} {
		idx, err := Build(rows, col, FirstSeen)
		if err != nil {
			t.Fatalf("Build(%s): %v", col, err)
		}
		seen := map[int]int{}
		total := 0
		for _, g := range idx.Groups() {
			if g.Size() == 0 {
				t.Fatalf("%s: empty group %q", col, g.Key)
			}
			for _, r := range g.Rows {
				seen[r.Line()]++
				v, _ := r.Value(col)
				if v != g.Key {
					t.Fatalf("%s: row %d with %q in group %q", col, r.Line(), v, g.Key)
				}
			}
			total += g.Size()
		}
		if total != len(rows) || len(seen) != len(rows) {
			t.Fatalf("%s: groups cover %d rows (%d distinct), want %d", col, total, len(seen), len(rows))
		}
		for line, n := range seen {
			if n != 1 {
				t.Fatalf("%s: row %d appears %d times", col, line, n)
			}
		}
	}
}

func TestGroupRowsKeepTableOrder(t *testing.T) {
	idx, _ := Build(salesRows(t), "Product", FirstSeen)
	g, ok := idx.Lookup("Burger")
	if !ok {
		t.Fatalf("Burger group missing")
	}
	var got []int
	for _, r := range g.Rows {
		got = append(got, r.Line())
	}
	if want := []int{2, 5, 6}; !reflect.DeepEqual(got, want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	if _, ok := idx.Lookup("Salad"); ok {
		t.Fatalf("unexpected group for Salad")
	}
}

func TestBuildByMonth(t *testing.T) {
	idx, err := BuildBy(salesRows(t), "Month", filter.MonthOf("Date", 3), Sorted)
	if err != nil {
		t.Fatalf("BuildBy: %v", err)
	}
	if want := []string{"11", "12"}; !reflect.DeepEqual(idx.Keys(), want) {
		t.Fatalf("keys = %v, want %v", idx.Keys(), want)
	}
	nov, _ := idx.Lookup("11")
	if nov.Size() != 3 {
		t.Fatalf("expected 3 November rows, got %d", nov.Size())
	}
}

func TestBuildMissingColumn(t *testing.T) {
	_, err := Build(salesRows(t), "Manager", FirstSeen)
	if !errors.Is(err, table.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestBuildEmpty(t *testing.T) {
	idx, err := Build(nil, "Product", FirstSeen)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if idx.Len() != 0 || len(idx.Groups()) != 0 {
		t.Fatalf("expected empty index")
	}
}

func TestParseOrder(t *testing.T) {
	if o, err := ParseOrder("sorted"); err != nil || o != Sorted {
		t.Fatalf("ParseOrder(sorted) = %v, %v", o, err)
	}
	if o, err := ParseOrder(""); err != nil || o != FirstSeen {
		t.Fatalf("ParseOrder(\"\") = %v, %v", o, err)
	}
	if _, err := ParseOrder("random"); err == nil {
		t.Fatalf("expected error for unknown order")
	}
}

func TestOrderedMap(t *testing.T) {
	om := newOrderedMap[string, int]()
	om.Set("b", 1)
	om.Set("a", 2)
	om.Set("b", 3)
	if !reflect.DeepEqual(om.Keys(), []string{"b", "a"}) {
		t.Fatalf("keys = %v", om.Keys())
	}
	if v, ok := om.Get("b"); !ok || v != 3 {
		t.Fatalf("Get(b) = %d, %v", v, ok)
	}
	if om.Has("c") || om.Len() != 2 {
		t.Fatalf("unexpected map state: has c=%v len=%d", om.Has("c"), om.Len())
	}
	keys := om.Keys()
	keys[0] = "z"
	if om.Keys()[0] != "b" {
		t.Fatalf("Keys returned an alias")
	}
}
