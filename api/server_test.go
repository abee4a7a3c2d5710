package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/service"
	"github.com/planetintel/rover-expedition/expedition/session"
)

// memConfigs serves planet configs from memory for handler tests.
type memConfigs struct {
	configs map[string]*planet.Config
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
			Filename: name + ".json",
			PlanetID: name,
			Name:     cfg.Name,
		})
	}
	return infos, nil
}

func (m *memConfigs) GetDefault() *planet.Config { return m.configs["strip"] }

func (m *memConfigs) SaveConfig(name string, config *planet.Config) error {
	m.configs[name] = config
	return nil
}

func newTestServer() *Server {
	configs := &memConfigs{configs: map[string]*planet.Config{
		"strip": {Name: "strip", Layout: []string{"H...X"}},
	}}
	svc := service.NewExpeditionService(session.NewManager(), configs)
	return NewServer(svc, nil)
}

func createExpedition(t *testing.T, server *Server) string {
	t.Helper()

	body := bytes.NewBufferString(`{"planet_id":"strip"}`)
	req := httptest.NewRequest("POST", "/api/expeditions", body)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Create returned status %d: %s", rec.Code, rec.Body.String())
	}

	var info service.ExpeditionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to decode create response: %v", err)
	}
	return info.ID
}

func TestHandleCreateExpedition(t *testing.T) {
	server := newTestServer()

	id := createExpedition(t, server)
	if len(id) != 4 {
		t.Errorf("Expected 4-character expedition ID, got %q", id)
	}
}

func TestHandleCreateExpedition_UnknownPlanet(t *testing.T) {
	server := newTestServer()

	body := bytes.NewBufferString(`{"planet_id":"atlantis"}`)
	req := httptest.NewRequest("POST", "/api/expeditions", body)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rec.Code)
	}
}

func TestHandleGetExpedition(t *testing.T) {
	server := newTestServer()
	id := createExpedition(t, server)

	req := httptest.NewRequest("GET", "/api/expeditions/"+id, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var info service.ExpeditionInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if info.ID != id || info.PlanetName != "strip" {
		t.Errorf("Unexpected expedition: %+v", info)
	}
}

func TestHandleGetExpedition_NotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("GET", "/api/expeditions/zzzz", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestHandleListExpeditions(t *testing.T) {
	server := newTestServer()
	createExpedition(t, server)
	createExpedition(t, server)

	req := httptest.NewRequest("GET", "/api/expeditions?limit=1", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp struct {
		Count       int                      `json:"count"`
		Expeditions []service.ExpeditionInfo `json:"expeditions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Count != 1 || len(resp.Expeditions) != 1 {
		t.Errorf("Expected 1 expedition after limit, got %d", resp.Count)
	}
}

func TestHandleRunSurvey(t *testing.T) {
	server := newTestServer()
	id := createExpedition(t, server)

	body := bytes.NewBufferString(`{"mode":"constrained"}`)
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/expeditions/%s/survey", id), body)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report service.SurveyReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.Map != "H..." {
		t.Errorf("Expected map %q, got %q", "H...", report.Map)
	}
	if report.DiscoveredCells != 5 || report.ObstructedCells != 1 {
		t.Errorf("Unexpected statistics: %+v", report)
	}
}

func TestHandleRunSurvey_EmptyBody(t *testing.T) {
	server := newTestServer()
	id := createExpedition(t, server)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/expeditions/%s/survey", id), nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 with defaults, got %d: %s", rec.Code, rec.Body.String())
	}

	var report service.SurveyReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.Mode != service.ModeConstrained {
		t.Errorf("Expected default mode, got %q", report.Mode)
	}
}

func TestHandleGetSurveyMap(t *testing.T) {
	server := newTestServer()
	id := createExpedition(t, server)

	// No survey yet
	req := httptest.NewRequest("GET", fmt.Sprintf("/api/expeditions/%s/map", id), nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 before survey, got %d", rec.Code)
	}

	// Run a survey, then fetch the map
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/expeditions/%s/survey", id), nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Survey failed: %d", rec.Code)
	}

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/expeditions/%s/map", id), nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var report service.SurveyReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.Map != "H..." {
		t.Errorf("Expected map %q, got %q", "H...", report.Map)
	}
}

func TestHandleReset(t *testing.T) {
	server := newTestServer()
	id := createExpedition(t, server)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/expeditions/%s/survey", id), nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Survey failed: %d", rec.Code)
	}

	req = httptest.NewRequest("POST", fmt.Sprintf("/api/expeditions/%s/reset", id), nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/expeditions/%s/map", id), nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after reset, got %d", rec.Code)
	}
}

func TestHandleGetMoveLog(t *testing.T) {
	server := newTestServer()
	id := createExpedition(t, server)

	req := httptest.NewRequest("POST", fmt.Sprintf("/api/expeditions/%s/survey", id), nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Survey failed: %d", rec.Code)
	}

	req = httptest.NewRequest("GET", fmt.Sprintf("/api/expeditions/%s/movelog?page=1&limit=5&order=asc", id), nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var history service.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("Failed to decode history: %v", err)
	}
	if len(history.Moves) != 5 {
		t.Errorf("Expected 5 moves, got %d", len(history.Moves))
	}
	if history.Moves[0].MoveNumber != 1 {
		t.Errorf("Expected first move number 1, got %d", history.Moves[0].MoveNumber)
	}
	if history.PageSize != 5 {
		t.Errorf("Expected page size 5, got %d", history.PageSize)
	}
}

func TestHandleDeleteExpedition(t *testing.T) {
	server := newTestServer()
	id := createExpedition(t, server)

	req := httptest.NewRequest("DELETE", "/api/expeditions/"+id, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/expeditions/"+id, nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 after delete, got %d", rec.Code)
	}
}

func TestHandleListPlanets(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("GET", "/api/planets", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var planets []service.PlanetInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &planets); err != nil {
		t.Fatalf("Failed to decode planets: %v", err)
	}
	if len(planets) != 1 || planets[0].PlanetID != "strip" {
		t.Errorf("Unexpected planet list: %+v", planets)
	}
}

func TestHandleGetPlanet(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("GET", "/api/planets/strip.json", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var cfg planet.Config
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("Failed to decode config: %v", err)
	}
	if cfg.Name != "strip" {
		t.Errorf("Expected planet 'strip', got %q", cfg.Name)
	}
}

func TestHandleCreatePlanet(t *testing.T) {
	server := newTestServer()

	body := bytes.NewBufferString(`{"name":"new-world","layout":["H..","..."]}`)
	req := httptest.NewRequest("POST", "/api/planets", body)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/planets/new-world", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Saved planet not retrievable: %d", rec.Code)
	}
}

func TestHandleCreatePlanet_MissingName(t *testing.T) {
	server := newTestServer()

	body := bytes.NewBufferString(`{"layout":["H.."]}`)
	req := httptest.NewRequest("POST", "/api/planets", body)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %q", resp["status"])
	}
}
