package service

import (
	"context"
	"time"

	"github.com/planetintel/rover-expedition/expedition/explorer"
	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/rover"
)

// ExpeditionService defines all expedition-related operations
type ExpeditionService interface {
	// Expedition Management
	CreateExpedition(ctx context.Context, planetName string) (*ExpeditionInfo, error)
	GetExpedition(ctx context.Context, expeditionID string) (*ExpeditionInfo, error)
	ListExpeditions(ctx context.Context) ([]*ExpeditionInfo, error)
	DeleteExpedition(ctx context.Context, expeditionID string) error

	// Survey Operations
	RunSurvey(ctx context.Context, expeditionID string, opts SurveyOptions) (*SurveyReport, error)
	GetSurveyMap(ctx context.Context, expeditionID string) (*SurveyReport, error)
	ResetExpedition(ctx context.Context, expeditionID string) (*ExpeditionInfo, error)
	GetMoveLog(ctx context.Context, expeditionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Planet Catalog
	ListPlanets(ctx context.Context) ([]*PlanetInfo, error)
	LoadPlanet(ctx context.Context, planetName string) (*planet.Config, error)
	SavePlanet(ctx context.Context, planetName string, config *planet.Config) error
}

// SessionManager defines expedition session storage operations
type SessionManager interface {
	Create(id string, config *planet.Config) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *planet.Config) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// ConfigManager handles planet configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*planet.Config, error)
	ListConfigs() ([]*PlanetInfo, error)
	GetDefault() *planet.Config
	SaveConfig(name string, config *planet.Config) error
}

// Session represents an active expedition
type Session struct {
	ID             string
	Planet         *planet.Planet
	Rover          *rover.Rover
	Config         *planet.Config
	Survey         *explorer.Survey
	SurveyMode     string
	SurveyBattery  int
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
