// Command validate provides a small CLI that validates planet configuration
// JSON files in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Grid consistency and allowed terrain symbols (H, ., w, X)
//   - Presence of exactly one home (H) cell
//   - Battery constraints
//   - Legend consistency with the layout
//   - Connectivity: warns about traversable cells sealed off from home
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/planetintel/rover-expedition/expedition/planet"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single configuration JSON file.
// It performs structural checks via the planet package, then runs a
// connectivity analysis over the terrain.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	config, err := planet.LoadConfigFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	p, err := planet.FromConfig(config)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Connectivity analysis - sealed pockets are legal terrain (the rover
	// simply can never map them) so they warn rather than fail.
	result.Errors = append(result.Errors, connectivityReport(p)...)

	// Add informational data
	if result.Valid {
		home := p.Home()
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", p.Rows(), p.Cols()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Home: (%d,%d)", home.Row, home.Col))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Traversable cells: %d", p.TraversableCount()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Battery: %d", config.BatteryOrDefault()))
	}

	return result
}

// connectivityReport lists traversable cells no path from home can reach,
// using 4-directional movement over non-obstructed cells.
func connectivityReport(p *planet.Planet) []string {
	home := p.Home()
	var sealed []planet.Coordinate

	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			coord := planet.Coordinate{Row: r, Col: c}
			if p.Traversable(coord) && !p.Reachable(home, coord) {
				sealed = append(sealed, coord)
			}
		}
	}

	if len(sealed) == 0 {
		return []string{fmt.Sprintf("✓ Connectivity: All %d traversable cells reachable from home", p.TraversableCount())}
	}

	lines := []string{fmt.Sprintf("⚠ Connectivity: %d/%d traversable cells sealed off from home", len(sealed), p.TraversableCount())}
	for _, c := range sealed {
		lines = append(lines, fmt.Sprintf("⚠ Sealed: (%d,%d)", c.Row, c.Col))
	}
	return lines
}

// main scans ../configs for *.json files and validates each one, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
