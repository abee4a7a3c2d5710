package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/service"
)

var (
	ErrConfigNotFound = errors.New("planet configuration not found")
	ErrInvalidConfig  = errors.New("invalid planet configuration")
)

// Manager handles planet configuration loading and caching
type Manager struct {
	configDir     string
	defaultConfig *planet.Config
	configs       map[string]*planet.Config
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*planet.Config),
	}

	// Load default config
	if err := m.loadDefaultConfig(); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	return m, nil
}

// LoadConfig loads a planet configuration by name
func (m *Manager) LoadConfig(name string) (*planet.Config, error) {
	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	configPath := filepath.Join(m.configDir, filename)

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse config
	var config planet.Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate config
	if err := planet.ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Cache the config
	m.configs[name] = &config
	return &config, nil
}

// ListConfigs returns information about all available planet configurations
func (m *Manager) ListConfigs() ([]*service.PlanetInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var configs []*service.PlanetInfo

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		// Remove .json extension for config name
		name := strings.TrimSuffix(entry.Name(), ".json")

		// Try to load the config to get details
		config, err := m.LoadConfig(name)
		if err != nil {
			// Skip invalid configs
			continue
		}

		configs = append(configs, &service.PlanetInfo{
			Filename:    entry.Name(),
			PlanetID:    name, // This is the identifier to use for expedition creation
			Name:        config.Name,
			Description: config.Description,
			Rows:        len(config.Layout),
			Cols:        len(config.Layout[0]),
			FullBattery: config.BatteryOrDefault(),
		})
	}

	return configs, nil
}

// GetDefault returns the default configuration
func (m *Manager) GetDefault() *planet.Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// SetDefault sets the default configuration by name
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadConfig(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultConfig = config
	return nil
}

// RefreshCache reloads all cached configurations from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*planet.Config)
	m.mu.Unlock()

	// Reload default config; loadDefaultConfig takes the lock itself
	return m.loadDefaultConfig()
}

// loadDefaultConfig loads the default configuration. It takes the manager
// lock only to publish the result, so it must not be called with the lock
// held.
func (m *Manager) loadDefaultConfig() error {
	// Try to load planet-1.json as default
	config, err := m.LoadConfig("planet-1")
	if err != nil {
		// Try to load the first available config
		configs, listErr := m.ListConfigs()
		if listErr == nil && len(configs) > 0 {
			config, err = m.LoadConfig(strings.TrimSuffix(configs[0].Filename, ".json"))
		}
		if listErr != nil || len(configs) == 0 || err != nil {
			// Fall back to the built-in fixture
			config = planet.PlanetOne()
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
	return nil
}

// SaveConfig saves a planet configuration to disk
func (m *Manager) SaveConfig(name string, config *planet.Config) error {
	// Validate config before saving
	if err := planet.ValidateConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// Add .json extension if not present
	filename := name
	if !strings.HasSuffix(filename, ".json") {
		filename = name + ".json"
	}

	configPath := filepath.Join(m.configDir, filename)

	// Marshal config to JSON with indentation
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[name] = config
	m.mu.Unlock()

	return nil
}

// SeedFixtures writes any built-in fixture planet that is missing from the
// config directory, so a fresh deployment starts with a usable catalog.
func (m *Manager) SeedFixtures() error {
	for _, cfg := range planet.Fixtures() {
		path := filepath.Join(m.configDir, cfg.Name+".json")
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := m.SaveConfig(cfg.Name, cfg); err != nil {
			return fmt.Errorf("failed to seed fixture %s: %w", cfg.Name, err)
		}
	}
	return nil
}
