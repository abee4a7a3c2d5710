package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/planetintel/rover-expedition/expedition/explorer"
	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/rover"
	"github.com/planetintel/rover-expedition/expedition/service"
)

// FilePersistence implements SessionPersistence using file system storage
type FilePersistence struct {
	sessionsDir   string
	configManager service.ConfigManager
}

// NewFilePersistence creates a new file-based expedition persistence layer
func NewFilePersistence(sessionsDir string, configManager service.ConfigManager) (*FilePersistence, error) {
	// Create sessions directory if it doesn't exist
	if err := os.MkdirAll(sessionsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	return &FilePersistence{
		sessionsDir:   sessionsDir,
		configManager: configManager,
	}, nil
}

// Save persists an expedition to a JSON file
func (fp *FilePersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("expedition cannot be nil")
	}

	// Get planet ID from display name
	planetID, err := fp.getPlanetIDFromName(session.Config.Name)
	if err != nil {
		return fmt.Errorf("failed to get planet ID: %w", err)
	}

	// Create persisted data structure
	data := PersistedExpeditionData{
		ID:             session.ID,
		PlanetName:     planetID, // Store planet ID, not display name
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
	}

	if session.Survey != nil {
		data.SurveyMode = session.SurveyMode
		data.SurveyBattery = session.SurveyBattery
		data.SurveyRadius = session.Survey.Radius
		data.SurveyHome = &PersistedCell{
			Row:    session.Survey.Home.Row,
			Col:    session.Survey.Home.Col,
			Symbol: string(planet.SymbolHome),
		}
		for c, sym := range session.Survey.Cells {
			data.SurveyCells = append(data.SurveyCells, PersistedCell{
				Row:    c.Row,
				Col:    c.Col,
				Symbol: string(sym),
			})
		}
	}

	// Marshal to JSON with indentation for readability
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal expedition data: %w", err)
	}

	// Write to file
	filePath := fp.getFilePath(session.ID)
	if err := os.WriteFile(filePath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write expedition file: %w", err)
	}

	return nil
}

// Load retrieves an expedition from a JSON file. The rover is re-deployed
// at home; only identity, timestamps and survey results survive a restart.
func (fp *FilePersistence) Load(id string) (*service.Session, error) {
	filePath := fp.getFilePath(id)

	// Check if file exists
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, ErrExpeditionNotFound
	}

	// Read file
	jsonData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read expedition file: %w", err)
	}

	// Unmarshal JSON
	var data PersistedExpeditionData
	if err := json.Unmarshal(jsonData, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal expedition data: %w", err)
	}

	// Load the planet configuration
	config, err := fp.configManager.LoadConfig(data.PlanetName)
	if err != nil {
		return nil, fmt.Errorf("failed to load planet '%s': %w", data.PlanetName, err)
	}

	p, err := planet.FromConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to build planet: %w", err)
	}

	// Create session with a fresh rover
	session := &service.Session{
		ID:             data.ID,
		Planet:         p,
		Rover:          rover.New(p, config.BatteryOrDefault()),
		Config:         config,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}

	// Restore survey results
	if len(data.SurveyCells) > 0 {
		home := planet.Coordinate{}
		if data.SurveyHome != nil {
			home = planet.Coordinate{Row: data.SurveyHome.Row, Col: data.SurveyHome.Col}
		}
		cells := make(map[planet.Coordinate]byte, len(data.SurveyCells))
		for _, cell := range data.SurveyCells {
			if cell.Symbol == "" {
				continue
			}
			cells[planet.Coordinate{Row: cell.Row, Col: cell.Col}] = cell.Symbol[0]
		}
		session.Survey = explorer.Restore(home, cells, data.SurveyRadius)
		session.SurveyMode = data.SurveyMode
		session.SurveyBattery = data.SurveyBattery
	}

	return session, nil
}

// Delete removes an expedition file
func (fp *FilePersistence) Delete(id string) error {
	filePath := fp.getFilePath(id)

	// Check if file exists
	if !fp.Exists(id) {
		return ErrExpeditionNotFound
	}

	// Remove file
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to remove expedition file: %w", err)
	}

	return nil
}

// ListAll returns all persisted expedition IDs
func (fp *FilePersistence) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fp.sessionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	var sessionIDs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".json") {
			// Remove .json extension to get expedition ID
			sessionID := strings.TrimSuffix(name, ".json")
			sessionIDs = append(sessionIDs, sessionID)
		}
	}

	return sessionIDs, nil
}

// Exists checks if an expedition file exists
func (fp *FilePersistence) Exists(id string) bool {
	filePath := fp.getFilePath(id)
	_, err := os.Stat(filePath)
	return err == nil
}

// getFilePath returns the full file path for an expedition ID
func (fp *FilePersistence) getFilePath(id string) string {
	return filepath.Join(fp.sessionsDir, fmt.Sprintf("%s.json", id))
}

// getPlanetIDFromName returns the planet ID (filename without extension)
// from display name
func (fp *FilePersistence) getPlanetIDFromName(displayName string) (string, error) {
	configs, err := fp.configManager.ListConfigs()
	if err != nil {
		return "", fmt.Errorf("failed to list planets: %w", err)
	}

	for _, config := range configs {
		if config.Name == displayName {
			return config.PlanetID, nil
		}
	}

	// If not found, assume the displayName is already the planet ID
	return displayName, nil
}
