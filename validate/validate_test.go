package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/planetintel/rover-expedition/expedition/planet"
)

func writeConfigFile(t *testing.T, dir, name string, cfg *planet.Config) string {
	t.Helper()
	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("failed to marshal config: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestValidateConfig_Valid(t *testing.T) {
	path := writeConfigFile(t, t.TempDir(), "valid.json", planet.PlanetOne())

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("expected valid result, got errors: %v", result.Errors)
	}

	joined := strings.Join(result.Errors, "\n")
	for _, want := range []string{
		"✓ Name: planet-1",
		"✓ Grid: 5x5",
		"✓ Home: (0,0)",
		"✓ Traversable cells: 25",
		"✓ Connectivity: All 25 traversable cells reachable from home",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected info line %q, got:\n%s", want, joined)
		}
	}
}

func TestValidateConfig_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	result := validateConfig(path)
	if result.Valid {
		t.Error("expected invalid result for malformed JSON")
	}
}

func TestValidateConfig_MissingHome(t *testing.T) {
	cfg := &planet.Config{
		Name:   "no-home",
		Layout: []string{"....", "...."},
	}
	path := writeConfigFile(t, t.TempDir(), "no-home.json", cfg)

	result := validateConfig(path)
	if result.Valid {
		t.Error("expected invalid result for layout without home")
	}
	joined := strings.Join(result.Errors, "\n")
	if !strings.Contains(joined, "home") {
		t.Errorf("expected home error, got:\n%s", joined)
	}
}

func TestValidateConfig_SealedPocketWarns(t *testing.T) {
	cfg := &planet.Config{
		Name: "sealed-pocket",
		Layout: []string{
			"H.X.",
			"..X.",
			"XXX.",
		},
	}
	path := writeConfigFile(t, t.TempDir(), "sealed.json", cfg)

	result := validateConfig(path)
	if !result.Valid {
		t.Errorf("sealed pockets are legal terrain, got errors: %v", result.Errors)
	}
	joined := strings.Join(result.Errors, "\n")
	if !strings.Contains(joined, "⚠ Connectivity: 3/7 traversable cells sealed off from home") {
		t.Errorf("expected connectivity warning, got:\n%s", joined)
	}
}

func TestConnectivityReport_OfficialPlanets(t *testing.T) {
	for _, cfg := range []*planet.Config{planet.PlanetOne(), planet.PlanetTwo(), planet.PlanetThree()} {
		p, err := planet.FromConfig(cfg)
		if err != nil {
			t.Fatalf("fixture %s failed to build: %v", cfg.Name, err)
		}
		lines := connectivityReport(p)
		if len(lines) != 1 || !strings.HasPrefix(lines[0], "✓") {
			t.Errorf("fixture %s has unreachable terrain: %v", cfg.Name, lines)
		}
	}
}

func TestConnectivityReport_SerpentineDeadEnds(t *testing.T) {
	p, err := planet.FromConfig(planet.TightCorridors())
	if err != nil {
		t.Fatalf("fixture failed to build: %v", err)
	}

	// The serpentine walls off three top-row cells on purpose.
	lines := connectivityReport(p)
	if !strings.Contains(lines[0], "3/") {
		t.Errorf("expected 3 sealed cells reported, got: %v", lines)
	}
}
