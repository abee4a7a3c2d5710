package session

import (
	"time"

	"github.com/planetintel/rover-expedition/expedition/service"
)

// SessionPersistence defines the interface for persisting expeditions
type SessionPersistence interface {
	// Save persists an expedition to storage
	Save(session *service.Session) error

	// Load retrieves an expedition from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes an expedition from storage
	Delete(id string) error

	// ListAll returns all persisted expedition IDs
	ListAll() ([]string, error)

	// Exists checks if an expedition exists in storage
	Exists(id string) bool
}

// PersistedCell is one discovered map cell in the persisted form
type PersistedCell struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Symbol string `json:"symbol"`
}

// PersistedExpeditionData represents the JSON structure for persisted
// expeditions
type PersistedExpeditionData struct {
	ID             string    `json:"id"`
	PlanetName     string    `json:"planet_name"`
	CreatedAt      time.Time `json:"created_at"`
	LastAccessedAt time.Time `json:"last_accessed_at"`

	// Survey results, empty when no survey has run
	SurveyMode    string          `json:"survey_mode,omitempty"`
	SurveyBattery int             `json:"survey_battery,omitempty"`
	SurveyRadius  int             `json:"survey_radius,omitempty"`
	SurveyHome    *PersistedCell  `json:"survey_home,omitempty"`
	SurveyCells   []PersistedCell `json:"survey_cells,omitempty"`
}
