package service

import (
	"time"

	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/rover"
)

// Survey modes accepted by RunSurvey.
const (
	ModeConstrained = "constrained"
	ModeFull        = "full"
)

// ExpeditionInfo provides information about an expedition
type ExpeditionInfo struct {
	ID             string         `json:"id"`
	PlanetName     string         `json:"planet_name"`
	CreatedAt      time.Time      `json:"created_at"`
	LastAccessedAt time.Time      `json:"last_accessed_at"`
	Rover          *RoverState    `json:"rover"`
	PlanetConfig   *planet.Config `json:"planet_config"`
	SurveyRun      bool           `json:"survey_run"`
}

// RoverState is a snapshot of the expedition rover
type RoverState struct {
	Position        planet.Coordinate `json:"position"`
	Battery         int               `json:"battery"`
	Capacity        int               `json:"capacity"`
	AtHome          bool              `json:"at_home"`
	SuccessfulMoves int               `json:"successful_moves"`
	MoveAttempts    int               `json:"move_attempts"`
}

// SurveyOptions configures a survey run
type SurveyOptions struct {
	// Mode selects the strategy: "constrained" (battery-bounded, the
	// default) or "full" (unbounded whole-surface traversal).
	Mode string `json:"mode"`

	// Battery overrides the planet's full-battery capacity for a
	// constrained survey. Zero means "use the planet's capacity".
	Battery int `json:"battery"`
}

// SurveyReport contains the outcome of a survey run
type SurveyReport struct {
	ExpeditionID string `json:"expedition_id"`
	Mode         string `json:"mode"`
	Battery      int    `json:"battery,omitempty"`

	Map      string   `json:"map"`
	MapLines []string `json:"map_lines"`
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`

	DiscoveredCells int     `json:"discovered_cells"`
	ObstructedCells int     `json:"obstructed_cells"`
	CoveragePercent float64 `json:"coverage_percent"`
	Radius          int     `json:"radius,omitempty"`

	MovesUsed int               `json:"moves_used"`
	Rover     *RoverState       `json:"rover"`
	Events    []ExpeditionEvent `json:"events,omitempty"`
}

// ExpeditionEvent represents an event that occurred during an expedition
type ExpeditionEvent struct {
	Type      string            `json:"type"` // "survey_started", "survey_complete", "reset"
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Position  planet.Coordinate `json:"position,omitempty"`
}

// HistoryOptions configures move log retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a paginated move log
type HistoryResponse struct {
	Moves       []rover.MoveRecord `json:"moves"`
	TotalMoves  int                `json:"total_moves"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	HasNext     bool               `json:"has_next"`
	HasPrevious bool               `json:"has_previous"`
}

// PlanetInfo provides information about a planet configuration
type PlanetInfo struct {
	Filename    string `json:"filename"`
	PlanetID    string `json:"planet_id"` // The identifier to use for expedition creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Rows        int    `json:"rows"`
	Cols        int    `json:"cols"`
	FullBattery int    `json:"full_battery"`
}
