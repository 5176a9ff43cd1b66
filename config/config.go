package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rustyeddy/trixsweep/backtest"
	"github.com/rustyeddy/trixsweep/indicators"
	"github.com/rustyeddy/trixsweep/market"
	"github.com/rustyeddy/trixsweep/signals"
	"gopkg.in/yaml.v3"
)

var ErrNoSides = errors.New("no trading side enabled")

// SweepConfig is the complete description of a parameter sweep: where the
// bars live, which parameter grid to test and how each run is funded.
type SweepConfig struct {
	Exchange   string `json:"exchange" yaml:"exchange"`
	DataDir    string `json:"data_dir" yaml:"data_dir"`
	ResultsDir string `json:"results_dir" yaml:"results_dir"`
	DBPath     string `json:"db_path" yaml:"db_path"`

	Pairs             []string  `json:"pairs" yaml:"pairs"`
	Timeframes        []string  `json:"timeframes" yaml:"timeframes"`
	TrixLengths       []int     `json:"trix_lengths" yaml:"trix_lengths"`
	TrixSignalLengths []int     `json:"trix_signal_lengths" yaml:"trix_signal_lengths"`
	TrixSignalTypes   []string  `json:"trix_signal_types" yaml:"trix_signal_types"`
	LongMALengths     []int     `json:"long_ma_lengths" yaml:"long_ma_lengths"`
	Sizes             []float64 `json:"sizes" yaml:"sizes"`
	Sides             []string  `json:"sides" yaml:"sides"`
	EntryMode         string    `json:"entry_mode,omitempty" yaml:"entry_mode,omitempty"`

	InitialWallet float64 `json:"initial_wallet" yaml:"initial_wallet"`
	Leverage      float64 `json:"leverage" yaml:"leverage"`
	StartDate     string  `json:"start_date,omitempty" yaml:"start_date,omitempty"` // YYYY-MM-DD
	EndDate       string  `json:"end_date,omitempty" yaml:"end_date,omitempty"`

	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"` // 0 means one per CPU
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*SweepConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &SweepConfig{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and JSON otherwise.
func (c *SweepConfig) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks every field that would otherwise fail halfway through a
// sweep.
func (c *SweepConfig) Validate() error {
	if c.Exchange == "" {
		return fmt.Errorf("exchange is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if len(c.Pairs) == 0 {
		return fmt.Errorf("at least one pair is required")
	}
	if len(c.Timeframes) == 0 {
		return fmt.Errorf("at least one timeframe is required")
	}
	for _, tf := range c.Timeframes {
		if _, err := market.ParseTimeframe(tf); err != nil {
			return err
		}
	}

	if err := positive("trix_lengths", c.TrixLengths); err != nil {
		return err
	}
	if err := positive("trix_signal_lengths", c.TrixSignalLengths); err != nil {
		return err
	}
	if err := positive("long_ma_lengths", c.LongMALengths); err != nil {
		return err
	}
	if len(c.TrixSignalTypes) == 0 {
		return fmt.Errorf("at least one trix_signal_type is required")
	}
	for _, s := range c.TrixSignalTypes {
		if _, err := indicators.ParseSmoothing(s); err != nil {
			return err
		}
	}

	if len(c.Sizes) == 0 {
		return fmt.Errorf("at least one size is required")
	}
	for _, s := range c.Sizes {
		if s <= 0 || s > 1 {
			return fmt.Errorf("size must be in (0, 1], got %g", s)
		}
	}

	if _, err := c.ParsedSides(); err != nil {
		return err
	}
	if _, err := signals.ParseEntryMode(c.EntryMode); err != nil {
		return err
	}

	if c.InitialWallet <= 0 {
		return fmt.Errorf("initial_wallet must be positive")
	}
	if c.Leverage <= 0 {
		return fmt.Errorf("leverage must be positive")
	}
	if _, _, err := c.Range(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

func positive(name string, vals []int) error {
	if len(vals) == 0 {
		return fmt.Errorf("at least one value in %s is required", name)
	}
	for _, v := range vals {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	return nil
}

// ParsedSides returns the enabled directions.
func (c *SweepConfig) ParsedSides() (market.Sides, error) {
	sides, err := market.ParseSides(c.Sides)
	if err != nil {
		return market.Sides{}, err
	}
	if !sides.Any() {
		return market.Sides{}, ErrNoSides
	}
	return sides, nil
}

// Range parses the start and end dates. Empty dates are returned as zero
// times. The end date includes the whole day.
func (c *SweepConfig) Range() (start, end time.Time, err error) {
	if c.StartDate != "" {
		start, err = time.ParseInLocation(time.DateOnly, c.StartDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
		}
	}
	if c.EndDate != "" {
		end, err = time.ParseInLocation(time.DateOnly, c.EndDate, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s > %s", backtest.ErrInvalidRange, c.StartDate, c.EndDate)
	}
	return start, end, nil
}

// WorkerCount resolves the configured number of workers.
func (c *SweepConfig) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

// Combinations is the number of runs the sweep will perform.
func (c *SweepConfig) Combinations() int {
	return len(c.Timeframes) * len(c.Pairs) * len(c.TrixLengths) *
		len(c.TrixSignalLengths) * len(c.TrixSignalTypes) * len(c.LongMALengths) * len(c.Sizes)
}

// Default returns a configuration with sensible defaults
func Default() *SweepConfig {
	return &SweepConfig{
		Exchange:          "binance",
		DataDir:           "./database/exchanges",
		ResultsDir:        "./results",
		DBPath:            "./results/results.sqlite",
		Pairs:             []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"},
		Timeframes:        []string{"1h", "2h", "4h"},
		TrixLengths:       []int{7, 11, 15, 20},
		TrixSignalLengths: []int{7, 11, 15, 20},
		TrixSignalTypes:   []string{"sma", "ema"},
		LongMALengths:     []int{200, 300, 500},
		Sizes:             []float64{1},
		Sides:             []string{"long"},
		EntryMode:         string(signals.EntryCross),
		InitialWallet:     1000,
		Leverage:          1,
		StartDate:         "2020-01-01",
	}
}
