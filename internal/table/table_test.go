package table

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewPadsShortRecords(t *testing.T) {
	tb, err := New([]string{"Product", "Price", "Quantity"}, [][]string{
		{"Burger", "5.00", "2"},
		{"Fries", "2.50"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tb.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tb.Len())
	}
	rows := tb.Rows()
	q, err := rows[1].Value("Quantity")
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if q != "" {
		t.Fatalf("expected padded empty quantity, got %q", q)
	}
	if rows[0].Line() != 1 || rows[1].Line() != 2 {
		t.Fatalf("unexpected line numbers: %d, %d", rows[0].Line(), rows[1].Line())
	}
}

func TestNewRejectsDuplicateHeader(t *testing.T) {
	if _, err := New([]string{"City", "City"}, nil); err == nil {
		t.Fatalf("expected duplicate column error")
	}
}

func TestRowErrors(t *testing.T) {
	r := NewRow(7, map[string]string{"Price": "abc"})

	_, err := r.Value("Quantity")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var mc *MissingColumnError
	if !errors.As(err, &mc) || mc.Column != "Quantity" || mc.Line != 7 {
		t.Fatalf("unexpected missing column detail: %#v", mc)
	}

	_, err = r.Number("Price")
	if !errors.Is(err, ErrMalformedField) {
		t.Fatalf("expected ErrMalformedField, got %v", err)
	}
	var mf *MalformedFieldError
	if !errors.As(err, &mf) || mf.Line != 7 || mf.Column != "Price" || mf.Value != "abc" {
		t.Fatalf("unexpected malformed field detail: %#v", mf)
	}

	for _, v := range []string{"NaN", "nan", "Inf", "+Inf", "-Infinity", "1e400", ""} {
		r := NewRow(3, map[string]string{"Quantity": v})
		if _, err := r.Number("Quantity"); !errors.Is(err, ErrMalformedField) {
			t.Fatalf("Number(%q): expected ErrMalformedField, got %v", v, err)
		}
	}
	if f, err := NewRow(3, map[string]string{"Quantity": " 1e3 "}).Number("Quantity"); err != nil || f != 1000 {
		t.Fatalf("Number(1e3) = %v, %v", f, err)
	}
}

func TestRowIsImmutable(t *testing.T) {
	src := map[string]string{"City": "Lisbon"}
	r := NewRow(1, src)
	src["City"] = "Madrid"
	f := r.Fields()
	f["City"] = "Paris"
	if v, _ := r.Value("City"); v != "Lisbon" {
		t.Fatalf("row mutated through alias: %q", v)
	}
}

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"   Hello   World!        ": "Hello World!",
		"Chicken\tSandwiches":       "Chicken Sandwiches",
		"":                          "",
		"  \n ":                     "",
		"Fries":                     "Fries",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	tb, err := New([]string{" Product ", "Payment  Method"}, [][]string{
		{"  Burger ", " Credit   Card"},
		{"Fries", "Cash "},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	once, err := Sanitize(tb)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	twice, err := Sanitize(once)
	if err != nil {
		t.Fatalf("Sanitize twice: %v", err)
	}
	if !reflect.DeepEqual(once.Header(), []string{"Product", "Payment Method"}) {
		t.Fatalf("unexpected header: %v", once.Header())
	}
	if !reflect.DeepEqual(once.Header(), twice.Header()) {
		t.Fatalf("header changed on second pass")
	}
	a, b := once.Rows(), twice.Rows()
	for i := range a {
		if !reflect.DeepEqual(a[i].Fields(), b[i].Fields()) || a[i].Line() != b[i].Line() {
			t.Fatalf("row %d changed on second pass: %v vs %v", i, a[i].Fields(), b[i].Fields())
		}
	}
	if v, _ := a[0].Value("Payment Method"); v != "Credit Card" {
		t.Fatalf("expected normalized value, got %q", v)
	}
	// the source table is untouched
	if v, _ := tb.Rows()[0].Value(" Product "); v != "  Burger " {
		t.Fatalf("source table mutated: %q", v)
	}
}

func TestRequire(t *testing.T) {
	tb, _ := New([]string{"Product"}, nil)
	if err := tb.Require("Product"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tb.Require("Product", "City"); !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}
