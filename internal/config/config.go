package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/group"
	"github.com/KaramelBytes/salesloom-cli/internal/loader"
	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Default input file when a command gets no file argument.
	DataPath string `mapstructure:"data_path" yaml:"data_path"`
	// CSV delimiter name or character; empty auto-detects from extension.
	Delimiter  string `mapstructure:"delimiter" yaml:"delimiter"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex int    `mapstructure:"sheet_index" yaml:"sheet_index"`
	MaxRows    int    `mapstructure:"max_rows" yaml:"max_rows"`

	TopN        int    `mapstructure:"top_n" yaml:"top_n"`
	MonthOffset int    `mapstructure:"month_offset" yaml:"month_offset"`
	GroupOrder  string `mapstructure:"group_order" yaml:"group_order"`

	ReportsDir string `mapstructure:"reports_dir" yaml:"reports_dir"`

	Columns sales.Columns `mapstructure:"columns" yaml:"columns"`
}

// Keys lists the settable scalar keys in display order.
var Keys = []string{
	"data_path", "delimiter", "sheet_name", "sheet_index", "max_rows",
	"top_n", "month_offset", "group_order", "reports_dir",
	"columns.product", "columns.price", "columns.quantity", "columns.manager",
	"columns.city", "columns.payment_method", "columns.purchase_type", "columns.date",
}

func dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".salesloom"), nil
}

// Path returns the config file used for cfgFile (default ~/.salesloom/config.yaml).
func Path(cfgFile string) (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salesloom/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path, err := Path(cfgFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESLOOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := sales.DefaultOptions()
	v.SetDefault("data_path", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet_name", "")
	v.SetDefault("sheet_index", 1)
	v.SetDefault("max_rows", 0)
	v.SetDefault("top_n", def.TopN)
	v.SetDefault("month_offset", def.MonthOffset)
	v.SetDefault("group_order", def.Order.String())
	v.SetDefault("reports_dir", "")
	v.SetDefault("columns.product", def.Columns.Product)
	v.SetDefault("columns.price", def.Columns.Price)
	v.SetDefault("columns.quantity", def.Columns.Quantity)
	v.SetDefault("columns.manager", def.Columns.Manager)
	v.SetDefault("columns.city", def.Columns.City)
	v.SetDefault("columns.payment_method", def.Columns.PaymentMethod)
	v.SetDefault("columns.purchase_type", def.Columns.PurchaseType)
	v.SetDefault("columns.date", def.Columns.Date)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		d, err := dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(d)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ReportsDir == "" {
		d, err := dir()
		if err != nil {
			return nil, err
		}
		c.ReportsDir = filepath.Join(d, "reports")
	}
	return &c, nil
}

// Get returns the string form of key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_path":
		return c.DataPath, nil
	case "delimiter":
		return c.Delimiter, nil
	case "sheet_name":
		return c.SheetName, nil
	case "sheet_index":
		return strconv.Itoa(c.SheetIndex), nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "top_n":
		return strconv.Itoa(c.TopN), nil
	case "month_offset":
		return strconv.Itoa(c.MonthOffset), nil
	case "group_order":
		return c.GroupOrder, nil
	case "reports_dir":
		return c.ReportsDir, nil
	}
	if p := c.column(key); p != nil {
		return *p, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set validates val and assigns it to key.
func (c *Global) Set(key, val string) error {
	nonNegative := func(dst *int) error {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		*dst = i
		return nil
	}
	switch key {
	case "data_path":
		c.DataPath = val
	case "delimiter":
		if _, err := loader.ParseDelimiter(val); err != nil {
			return err
		}
		c.Delimiter = val
	case "sheet_name":
		c.SheetName = val
	case "sheet_index":
		return nonNegative(&c.SheetIndex)
	case "max_rows":
		return nonNegative(&c.MaxRows)
	case "top_n":
		return nonNegative(&c.TopN)
	case "month_offset":
		return nonNegative(&c.MonthOffset)
	case "group_order":
		o, err := group.ParseOrder(val)
		if err != nil {
			return err
		}
		c.GroupOrder = o.String()
	case "reports_dir":
		c.ReportsDir = val
	default:
		p := c.column(key)
		if p == nil {
			return fmt.Errorf("unknown key: %s", key)
		}
		if strings.TrimSpace(val) == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
		*p = val
	}
	return nil
}

func (c *Global) column(key string) *string {
	switch key {
	case "columns.product":
		return &c.Columns.Product
	case "columns.price":
		return &c.Columns.Price
	case "columns.quantity":
		return &c.Columns.Quantity
	case "columns.manager":
		return &c.Columns.Manager
	case "columns.city":
		return &c.Columns.City
	case "columns.payment_method":
		return &c.Columns.PaymentMethod
	case "columns.purchase_type":
		return &c.Columns.PurchaseType
	case "columns.date":
		return &c.Columns.Date
	}
	return nil
}

// SalesOptions converts the analysis settings.
func (c *Global) SalesOptions() (sales.Options, error) {
	o, err := group.ParseOrder(c.GroupOrder)
	if err != nil {
		return sales.Options{}, err
	}
	return sales.Options{
		Columns:     c.Columns,
		MonthOffset: c.MonthOffset,
		TopN:        c.TopN,
		Order:       o,
	}, nil
}

// LoaderOptions converts the file reading settings.
func (c *Global) LoaderOptions() (loader.Options, error) {
	d, err := loader.ParseDelimiter(c.Delimiter)
	if err != nil {
		return loader.Options{}, err
	}
	return loader.Options{
		Delimiter:  d,
		SheetName:  c.SheetName,
		SheetIndex: c.SheetIndex,
		MaxRows:    c.MaxRows,
	}, nil
}
