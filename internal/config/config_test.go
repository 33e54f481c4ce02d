package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/salesloom-cli/internal/group"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopN != 3 || c.MonthOffset != 3 || c.SheetIndex != 1 || c.GroupOrder != "sorted" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Columns.PaymentMethod != "Payment Method" || c.Columns.Date != "Date" {
		t.Fatalf("unexpected column defaults: %+v", c.Columns)
	}
	if !strings.HasSuffix(c.ReportsDir, filepath.Join(".salesloom", "reports")) {
		t.Fatalf("reports_dir = %s", c.ReportsDir)
	}
	opt, err := c.SalesOptions()
	if err != nil || opt.Order != group.Sorted || opt.TopN != 3 {
		t.Fatalf("SalesOptions = %+v, %v", opt, err)
	}
	lo, err := c.LoaderOptions()
	if err != nil || lo.Delimiter != 0 || lo.SheetIndex != 1 {
		t.Fatalf("LoaderOptions = %+v, %v", lo, err)
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for k, v := range map[string]string{
		"top_n":           "5",
		"delimiter":       ";",
		"group_order":     "first_seen",
		"columns.city":    "Branch",
		"data_path":       "/data/sales.csv",
		"month_offset":    "5",
		"sheet_name":      "Orders",
		"columns.product": "Item",
	} {
		if err := c.Set(k, v); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}
	if err := Save(c, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "city: Branch") {
		t.Fatalf("yaml missing nested column:\n%s", b)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if r.TopN != 5 || r.Delimiter != ";" || r.GroupOrder != "first-seen" || r.Columns.City != "Branch" || r.Columns.Product != "Item" {
		t.Fatalf("reloaded config mismatch: %+v", r)
	}
	if got, _ := r.Get("columns.price"); got != "Price" {
		t.Fatalf("columns.price = %q", got)
	}
	lo, _ := r.LoaderOptions()
	if lo.Delimiter != ';' || lo.SheetName != "Orders" {
		t.Fatalf("LoaderOptions = %+v", lo)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SALESLOOM_TOP_N", "9")
	t.Setenv("SALESLOOM_COLUMNS_MANAGER", "Supervisor")
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.TopN != 9 || c.Columns.Manager != "Supervisor" {
		t.Fatalf("env not applied: top_n=%d manager=%s", c.TopN, c.Columns.Manager)
	}
}

func TestSetRejectsBadValues(t *testing.T) {
	c := &Global{}
	for k, v := range map[string]string{
		"top_n":         "-1",
		"max_rows":      "many",
		"group_order":   "random",
		"delimiter":     "::",
		"columns.price": " ",
		"api_key":       "x",
	} {
		if err := c.Set(k, v); err == nil {
			t.Fatalf("Set(%s, %q) should fail", k, v)
		}
	}
	for _, k := range Keys {
		if _, err := c.Get(k); err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
	}
}
