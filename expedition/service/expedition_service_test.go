package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/service"
	"github.com/planetintel/rover-expedition/expedition/session"
)

// memConfigs serves a fixed set of planet configs from memory.
type memConfigs struct {
	configs map[string]*planet.Config
	def     *planet.Config
}

func newMemConfigs(cfgs ...*planet.Config) *memConfigs {
	m := &memConfigs{configs: make(map[string]*planet.Config)}
	for _, cfg := range cfgs {
		m.configs[cfg.Name] = cfg
	}
	m.def = cfgs[0]
	return m
}

func (m *memConfigs) LoadConfig(name string) (*planet.Config, error) {
	if cfg, ok := m.configs[name]; ok {
		return cfg, nil
	}
	return nil, errors.New("planet configuration not found")
}

func (m *memConfigs) ListConfigs() ([]*service.PlanetInfo, error) {
	var infos []*service.PlanetInfo
	for name, cfg := range m.configs {
		infos = append(infos, &service.PlanetInfo{
			Filename:    name + ".json",
			PlanetID:    name,
			Name:        cfg.Name,
			Rows:        len(cfg.Layout),
			Cols:        len(cfg.Layout[0]),
			FullBattery: cfg.BatteryOrDefault(),
		})
	}
	return infos, nil
}

func (m *memConfigs) GetDefault() *planet.Config { return m.def }

func (m *memConfigs) SaveConfig(name string, config *planet.Config) error {
	m.configs[name] = config
	return nil
}

func newTestService(cfgs ...*planet.Config) service.ExpeditionService {
	return service.NewExpeditionService(session.NewManager(), newMemConfigs(cfgs...))
}

func stripConfig() *planet.Config {
	return &planet.Config{
		Name:   "strip",
		Layout: []string{"H...X"},
	}
}

func TestCreateExpedition(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}

	if info.PlanetName != "strip" {
		t.Errorf("Expected planet 'strip', got %q", info.PlanetName)
	}
	if info.Rover == nil || !info.Rover.AtHome {
		t.Error("Expected rover parked at home")
	}
	if info.SurveyRun {
		t.Error("Expected no survey on a new expedition")
	}
}

func TestCreateExpedition_UnknownPlanet(t *testing.T) {
	svc := newTestService(stripConfig())

	if _, err := svc.CreateExpedition(context.Background(), "atlantis"); err == nil {
		t.Error("Expected error for unknown planet")
	}
}

func TestCreateExpedition_DefaultPlanet(t *testing.T) {
	svc := newTestService(stripConfig())

	info, err := svc.CreateExpedition(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}
	if info.PlanetConfig.Name != "strip" {
		t.Errorf("Expected default planet, got %q", info.PlanetConfig.Name)
	}
}

func TestRunSurvey_Constrained(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}

	report, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{})
	if err != nil {
		t.Fatalf("RunSurvey failed: %v", err)
	}

	// The free corridor is mapped; the obstruction sits outside the dense
	// map's bounding box but still counts as discovered.
	if report.Map != "H..." {
		t.Errorf("Expected map %q, got %q", "H...", report.Map)
	}
	if report.Rows != 1 || report.Cols != 4 {
		t.Errorf("Expected 1x4 map, got %dx%d", report.Rows, report.Cols)
	}
	if report.DiscoveredCells != 5 {
		t.Errorf("Expected 5 discovered cells, got %d", report.DiscoveredCells)
	}
	if report.ObstructedCells != 1 {
		t.Errorf("Expected 1 obstruction, got %d", report.ObstructedCells)
	}
	if report.Mode != service.ModeConstrained {
		t.Errorf("Expected constrained mode, got %q", report.Mode)
	}
	if report.Battery != planet.DefaultFullBattery {
		t.Errorf("Expected default battery %d, got %d", planet.DefaultFullBattery, report.Battery)
	}
	if report.MovesUsed == 0 {
		t.Error("Expected the rover to have moved")
	}
	if report.Rover == nil || !report.Rover.AtHome {
		t.Error("Expected rover back home after survey")
	}
	if len(report.Events) == 0 {
		t.Error("Expected survey events")
	}
}

func TestRunSurvey_Full(t *testing.T) {
	svc := newTestService(planet.PlanetOne())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "planet-1")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}

	report, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{Mode: service.ModeFull})
	if err != nil {
		t.Fatalf("RunSurvey failed: %v", err)
	}

	// Every cell of the fully-connected fixture is observable, so the
	// dense map reproduces the layout exactly.
	for i, line := range report.MapLines {
		if line != planet.PlanetOne().Layout[i] {
			t.Errorf("Row %d: expected %q, got %q", i, planet.PlanetOne().Layout[i], line)
		}
	}
	if report.CoveragePercent != 100 {
		t.Errorf("Expected 100%% coverage, got %f", report.CoveragePercent)
	}
	if report.Radius != 0 {
		t.Errorf("Expected no radius on a full survey, got %d", report.Radius)
	}
}

func TestRunSurvey_BatteryOverride(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}

	report, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{Battery: 2})
	if err != nil {
		t.Fatalf("RunSurvey failed: %v", err)
	}
	if report.Battery != 2 {
		t.Errorf("Expected battery 2, got %d", report.Battery)
	}
	// Budget 2 reaches only the first neighbor ring.
	if report.Map != "H." {
		t.Errorf("Expected map %q, got %q", "H.", report.Map)
	}

	if _, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{Battery: -1}); err == nil {
		t.Error("Expected error for negative battery")
	}
}

func TestRunSurvey_UnknownMode(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}

	if _, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{Mode: "orbital"}); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestGetSurveyMap_BeforeSurvey(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}

	if _, err := svc.GetSurveyMap(ctx, info.ID); !errors.Is(err, service.ErrNoSurvey) {
		t.Errorf("Expected ErrNoSurvey, got %v", err)
	}
}

func TestGetSurveyMap_AfterSurvey(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}
	first, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{})
	if err != nil {
		t.Fatalf("RunSurvey failed: %v", err)
	}

	report, err := svc.GetSurveyMap(ctx, info.ID)
	if err != nil {
		t.Fatalf("GetSurveyMap failed: %v", err)
	}
	if report.Map != first.Map {
		t.Errorf("Expected map %q, got %q", first.Map, report.Map)
	}
}

func TestResetExpedition(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}
	if _, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{}); err != nil {
		t.Fatalf("RunSurvey failed: %v", err)
	}

	after, err := svc.ResetExpedition(ctx, info.ID)
	if err != nil {
		t.Fatalf("ResetExpedition failed: %v", err)
	}
	if after.SurveyRun {
		t.Error("Expected survey cleared after reset")
	}
	if _, err := svc.GetSurveyMap(ctx, info.ID); !errors.Is(err, service.ErrNoSurvey) {
		t.Errorf("Expected ErrNoSurvey after reset, got %v", err)
	}
}

func TestGetMoveLog_Pagination(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}
	if _, err := svc.RunSurvey(ctx, info.ID, service.SurveyOptions{}); err != nil {
		t.Fatalf("RunSurvey failed: %v", err)
	}

	asc, err := svc.GetMoveLog(ctx, info.ID, service.HistoryOptions{Page: 1, Limit: 5, Order: "asc"})
	if err != nil {
		t.Fatalf("GetMoveLog failed: %v", err)
	}
	if len(asc.Moves) != 5 {
		t.Fatalf("Expected 5 moves, got %d", len(asc.Moves))
	}
	for i, move := range asc.Moves {
		if move.MoveNumber != i+1 {
			t.Errorf("Move %d: expected number %d, got %d", i, i+1, move.MoveNumber)
		}
	}
	if !asc.HasNext || asc.HasPrevious {
		t.Errorf("Unexpected pagination flags: %+v", asc)
	}

	desc, err := svc.GetMoveLog(ctx, info.ID, service.HistoryOptions{})
	if err != nil {
		t.Fatalf("GetMoveLog failed: %v", err)
	}
	if desc.Moves[0].MoveNumber != desc.TotalMoves {
		t.Errorf("Expected most recent move first, got number %d of %d",
			desc.Moves[0].MoveNumber, desc.TotalMoves)
	}
}

func TestDeleteExpedition(t *testing.T) {
	svc := newTestService(stripConfig())
	ctx := context.Background()

	info, err := svc.CreateExpedition(ctx, "strip")
	if err != nil {
		t.Fatalf("CreateExpedition failed: %v", err)
	}

	if err := svc.DeleteExpedition(ctx, info.ID); err != nil {
		t.Fatalf("DeleteExpedition failed: %v", err)
	}
	if _, err := svc.GetExpedition(ctx, info.ID); err == nil {
		t.Error("Expected error after delete")
	}

	list, err := svc.ListExpeditions(ctx)
	if err != nil {
		t.Fatalf("ListExpeditions failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("Expected no expeditions, got %d", len(list))
	}
}

func TestPlanetCatalog(t *testing.T) {
	svc := newTestService(stripConfig(), planet.PlanetOne())
	ctx := context.Background()

	planets, err := svc.ListPlanets(ctx)
	if err != nil {
		t.Fatalf("ListPlanets failed: %v", err)
	}
	if len(planets) != 2 {
		t.Errorf("Expected 2 planets, got %d", len(planets))
	}

	cfg, err := svc.LoadPlanet(ctx, "strip")
	if err != nil {
		t.Fatalf("LoadPlanet failed: %v", err)
	}
	if cfg.Name != "strip" {
		t.Errorf("Expected 'strip', got %q", cfg.Name)
	}

	saved := &planet.Config{Name: "new-world", Layout: []string{"H.", ".."}}
	if err := svc.SavePlanet(ctx, "new-world", saved); err != nil {
		t.Fatalf("SavePlanet failed: %v", err)
	}
	if _, err := svc.LoadPlanet(ctx, "new-world"); err != nil {
		t.Errorf("Saved planet not loadable: %v", err)
	}
}
