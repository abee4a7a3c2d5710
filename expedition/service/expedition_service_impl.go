package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/planetintel/rover-expedition/expedition/explorer"
	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/rover"
	"github.com/planetintel/rover-expedition/expedition/surveymap"
)

// ErrNoSurvey is returned when a map or report is requested before any
// survey has run on the expedition.
var ErrNoSurvey = errors.New("no survey has been run for this expedition")

// expeditionServiceImpl implements the ExpeditionService interface
type expeditionServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewExpeditionService creates a new expedition service instance
func NewExpeditionService(sessions SessionManager, configs ConfigManager) ExpeditionService {
	return &expeditionServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getPlanetID returns the planet_id for a given planet display name, used
// for consistent API responses
func (s *expeditionServiceImpl) getPlanetID(planetName string) string {
	availablePlanets, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availablePlanets {
			if cfg.Name == planetName {
				return cfg.PlanetID
			}
		}
	}
	// Fallback: return as-is or "default"
	if planetName == "" {
		return "default"
	}
	return planetName
}

// CreateExpedition creates a new expedition on the named planet
func (s *expeditionServiceImpl) CreateExpedition(ctx context.Context, planetName string) (*ExpeditionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *planet.Config
	var err error
	if planetName != "" {
		config, err = s.configs.LoadConfig(planetName)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availablePlanets, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availablePlanets) > 0 {
					var planetIDs []string
					for _, cfg := range availablePlanets {
						planetIDs = append(planetIDs, cfg.PlanetID)
					}
					return nil, fmt.Errorf("planet '%s' not found. Available planets: %v", planetName, planetIDs)
				}
				return nil, fmt.Errorf("planet '%s' not found. Use /api/planets to list available planets", planetName)
			}
			return nil, fmt.Errorf("failed to load planet %s: %w", planetName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create expedition: %w", err)
	}

	// Determine the planet identifier to return - prefer the input
	// planetName if provided, otherwise look up the planet_id by display
	// name
	planetID := planetName
	if planetID == "" {
		planetID = s.getPlanetID(config.Name)
	}

	return s.expeditionInfo(session, planetID), nil
}

// GetExpedition retrieves expedition information
func (s *expeditionServiceImpl) GetExpedition(ctx context.Context, expeditionID string) (*ExpeditionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(expeditionID)
	if err != nil {
		return nil, fmt.Errorf("expedition not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(expeditionID)

	return s.expeditionInfo(session, s.getPlanetID(session.Config.Name)), nil
}

// ListExpeditions returns all active expeditions
func (s *expeditionServiceImpl) ListExpeditions(ctx context.Context) ([]*ExpeditionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*ExpeditionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, s.expeditionInfo(sess, s.getPlanetID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteExpedition removes an expedition
func (s *expeditionServiceImpl) DeleteExpedition(ctx context.Context, expeditionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(expeditionID)
}

// RunSurvey executes a survey for an expedition. A fresh rover is deployed
// for every run, so surveys on the same expedition are independent and
// repeatable.
func (s *expeditionServiceImpl) RunSurvey(ctx context.Context, expeditionID string, opts SurveyOptions) (*SurveyReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(expeditionID)
	if err != nil {
		return nil, fmt.Errorf("expedition not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(expeditionID)

	mode := opts.Mode
	if mode == "" {
		mode = ModeConstrained
	}

	battery := opts.Battery
	if battery < 0 {
		return nil, fmt.Errorf("battery override must be non-negative, got %d", battery)
	}
	if battery == 0 {
		battery = sess.Config.BatteryOrDefault()
	}

	events := []ExpeditionEvent{}

	var rv *rover.Rover
	var survey *explorer.Survey

	switch mode {
	case ModeConstrained:
		events = append(events, ExpeditionEvent{
			Type:      "survey_started",
			Message:   fmt.Sprintf("Constrained survey started with battery %d", battery),
			Timestamp: time.Now(),
			Position:  sess.Planet.Home(),
		})
		rv = rover.New(sess.Planet, battery)
		survey = explorer.Explore(rv, battery)
	case ModeFull:
		battery = 0
		events = append(events, ExpeditionEvent{
			Type:      "survey_started",
			Message:   "Full-surface survey started",
			Timestamp: time.Now(),
			Position:  sess.Planet.Home(),
		})
		rv = rover.NewUnbounded(sess.Planet)
		survey = explorer.FullSurvey(rv, sess.Planet, sess.Planet.Home())
	default:
		return nil, fmt.Errorf("unknown survey mode %q (expected %q or %q)", mode, ModeConstrained, ModeFull)
	}

	sess.Rover = rv
	sess.Survey = survey
	sess.SurveyMode = mode
	sess.SurveyBattery = battery

	report := s.buildReport(sess)
	events = append(events, ExpeditionEvent{
		Type: "survey_complete",
		Message: fmt.Sprintf("Survey complete: %d cells discovered, %d obstructions, %d moves",
			report.DiscoveredCells, report.ObstructedCells, report.MovesUsed),
		Timestamp: time.Now(),
		Position:  rv.Position(),
	})
	report.Events = events

	// Auto-save session after survey
	if err := s.sessions.Save(expeditionID); err != nil {
		fmt.Printf("Warning: Failed to persist expedition %s after survey: %v\n", expeditionID, err)
	}

	return report, nil
}

// GetSurveyMap returns the report of the most recent survey
func (s *expeditionServiceImpl) GetSurveyMap(ctx context.Context, expeditionID string) (*SurveyReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(expeditionID)
	if err != nil {
		return nil, fmt.Errorf("expedition not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(expeditionID)

	if sess.Survey == nil {
		return nil, ErrNoSurvey
	}

	return s.buildReport(sess), nil
}

// ResetExpedition discards any survey results and parks a fresh rover at
// home
func (s *expeditionServiceImpl) ResetExpedition(ctx context.Context, expeditionID string) (*ExpeditionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(expeditionID)
	if err != nil {
		return nil, fmt.Errorf("expedition not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(expeditionID)

	sess.Rover = rover.New(sess.Planet, sess.Config.BatteryOrDefault())
	sess.Survey = nil
	sess.SurveyMode = ""
	sess.SurveyBattery = 0

	// Auto-save session after reset
	if err := s.sessions.Save(expeditionID); err != nil {
		fmt.Printf("Warning: Failed to persist expedition %s after reset: %v\n", expeditionID, err)
	}

	return s.expeditionInfo(sess, s.getPlanetID(sess.Config.Name)), nil
}

// GetMoveLog returns the paginated move log of the most recent survey
func (s *expeditionServiceImpl) GetMoveLog(ctx context.Context, expeditionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(expeditionID)
	if err != nil {
		return nil, fmt.Errorf("expedition not found: %w", err)
	}

	history := sess.Rover.MoveLog()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	// Get the slice of moves
	var moves []rover.MoveRecord
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else {
		// Normal chronological order
		if start < total {
			moves = history[start:end]
		}
	}

	// Ensure moves is not nil
	if moves == nil {
		moves = []rover.MoveRecord{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListPlanets returns available planet configurations
func (s *expeditionServiceImpl) ListPlanets(ctx context.Context) ([]*PlanetInfo, error) {
	return s.configs.ListConfigs()
}

// LoadPlanet loads a specific planet configuration
func (s *expeditionServiceImpl) LoadPlanet(ctx context.Context, planetName string) (*planet.Config, error) {
	return s.configs.LoadConfig(planetName)
}

// SavePlanet saves a planet configuration to disk
func (s *expeditionServiceImpl) SavePlanet(ctx context.Context, planetName string, config *planet.Config) error {
	return s.configs.SaveConfig(planetName, config)
}

// expeditionInfo builds the public expedition snapshot
func (s *expeditionServiceImpl) expeditionInfo(sess *Session, planetID string) *ExpeditionInfo {
	return &ExpeditionInfo{
		ID:             sess.ID,
		PlanetName:     planetID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Rover:          roverState(sess.Rover),
		PlanetConfig:   sess.Config,
		SurveyRun:      sess.Survey != nil,
	}
}

// buildReport assembles the dense map and statistics for the session's
// current survey. The caller must hold the service lock and ensure the
// survey exists.
func (s *expeditionServiceImpl) buildReport(sess *Session) *SurveyReport {
	grid := surveymap.Assemble(sess.Survey.Cells)

	rows := len(grid)
	cols := 0
	if rows > 0 {
		cols = len(grid[0])
	}

	report := &SurveyReport{
		ExpeditionID:    sess.ID,
		Mode:            sess.SurveyMode,
		Battery:         sess.SurveyBattery,
		Map:             surveymap.Render(grid),
		MapLines:        surveymap.Lines(grid),
		Rows:            rows,
		Cols:            cols,
		DiscoveredCells: sess.Survey.DiscoveredCount(),
		ObstructedCells: sess.Survey.ObstructedCount(),
		CoveragePercent: surveymap.CoveragePercent(grid),
		MovesUsed:       sess.Rover.SuccessfulMoves(),
		Rover:           roverState(sess.Rover),
	}
	if sess.SurveyMode == ModeConstrained {
		report.Radius = sess.Survey.Radius
	}
	return report
}

func roverState(rv *rover.Rover) *RoverState {
	if rv == nil {
		return nil
	}
	return &RoverState{
		Position:        rv.Position(),
		Battery:         rv.Battery(),
		Capacity:        rv.Capacity(),
		AtHome:          rv.AtHome(),
		SuccessfulMoves: rv.SuccessfulMoves(),
		MoveAttempts:    len(rv.MoveLog()),
	}
}
