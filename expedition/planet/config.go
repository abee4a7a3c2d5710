package planet

import (
	"encoding/json"
	"fmt"
	"os"
)

// Battery limits for configuration validation. A zero full_battery is legal
// and means "use the default capacity"; explicit per-survey overrides may
// still request any non-negative budget.
const (
	MaxFullBattery     = 1000
	DefaultFullBattery = 20
)

// Config is the JSON description of a planet available to expeditions.
type Config struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Layout      []string          `json:"layout"`
	FullBattery int               `json:"full_battery,omitempty"`
	Legend      map[string]string `json:"legend,omitempty"`
}

// BatteryOrDefault returns the configured full-battery capacity, falling
// back to the default when the config leaves it unset.
func (c *Config) BatteryOrDefault() int {
	if c.FullBattery > 0 {
		return c.FullBattery
	}
	return DefaultFullBattery
}

// requiredLegend maps each terrain symbol to its canonical meaning.
var requiredLegend = map[string]string{
	"H": "home",
	".": "free",
	"w": "water",
	"X": "obstructed",
}

// ValidateConfig validates a planet configuration for correctness.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if cfg.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	if len(cfg.Layout) < MinGridRows || len(cfg.Layout) > MaxGridRows {
		return fmt.Errorf("config validation: layout must have between %d and %d rows, got %d",
			MinGridRows, MaxGridRows, len(cfg.Layout))
	}

	width := len(cfg.Layout[0])
	if width < MinGridCols || width > MaxGridCols {
		return fmt.Errorf("config validation: layout rows must have between %d and %d columns, got %d",
			MinGridCols, MaxGridCols, width)
	}

	homeCount := 0
	for i, row := range cfg.Layout {
		if len(row) != width {
			return fmt.Errorf("config validation: row %d must have %d characters, got %d",
				i+1, width, len(row))
		}
		for j := 0; j < len(row); j++ {
			switch row[j] {
			case SymbolFree, SymbolWater, SymbolObstructed:
			case SymbolHome:
				homeCount++
			default:
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d",
					row[j], i+1, j+1)
			}
		}
	}

	if homeCount != 1 {
		return fmt.Errorf("config validation: layout must contain exactly one home (H) cell, got %d", homeCount)
	}

	if cfg.FullBattery < 0 || cfg.FullBattery > MaxFullBattery {
		return fmt.Errorf("config validation: full_battery must be between 0 and %d, got %d",
			MaxFullBattery, cfg.FullBattery)
	}

	// Legend is optional, but when present it must not contradict the symbols.
	for key, value := range cfg.Legend {
		expected, ok := requiredLegend[key]
		if !ok {
			return fmt.Errorf("config validation: legend key '%s' is not a terrain symbol", key)
		}
		if value != expected {
			return fmt.Errorf("config validation: legend['%s'] must be '%s', got '%s'", key, expected, value)
		}
	}

	return nil
}

// LoadConfigFile loads and validates a planet configuration from a JSON file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse planet config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
