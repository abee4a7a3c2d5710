// Command analyze prints offline, human-readable heuristics about planet
// configurations. "inspect" summarizes static terrain statistics and flags
// cells a rover could never reach from home. "survey" runs a constrained
// survey against the real terrain and reports the assembled map, coverage,
// and why the remaining tiles stayed unknown.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/planetintel/rover-expedition/expedition/config"
	"github.com/planetintel/rover-expedition/expedition/explorer"
	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/rover"
	"github.com/planetintel/rover-expedition/expedition/surveymap"
)

func main() {
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "offline analysis of planet configurations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "directory containing planet configuration files",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "print static terrain statistics for planets",
				ArgsUsage: "[planet-id ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return forEachPlanet(cmd, func(cfg *planet.Config) error {
						return inspectPlanet(os.Stdout, cfg)
					})
				},
			},
			{
				Name:      "survey",
				Usage:     "run a constrained survey and report map coverage",
				ArgsUsage: "[planet-id ...]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "battery",
						Usage: "battery capacity override (default: planet setting)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					battery := int(cmd.Int("battery"))
					return forEachPlanet(cmd, func(cfg *planet.Config) error {
						return surveyPlanet(os.Stdout, cfg, battery)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// forEachPlanet resolves the requested planet IDs (all cataloged planets
// when none are named) and applies fn to each configuration.
func forEachPlanet(cmd *cli.Command, fn func(*planet.Config) error) error {
	manager, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return fmt.Errorf("failed to open config directory: %w", err)
	}

	ids := cmd.Args().Slice()
	if len(ids) == 0 {
		planets, err := manager.ListConfigs()
		if err != nil {
			return err
		}
		for _, p := range planets {
			ids = append(ids, p.PlanetID)
		}
	}

	for _, id := range ids {
		cfg, err := manager.LoadConfig(id)
		if err != nil {
			return fmt.Errorf("failed to load planet %s: %w", id, err)
		}
		if err := fn(cfg); err != nil {
			return err
		}
	}

	return nil
}

// inspectPlanet prints terrain statistics for one planet configuration and
// flags traversable cells that no rover could ever reach from home.
func inspectPlanet(w io.Writer, cfg *planet.Config) error {
	p, err := planet.FromConfig(cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n=== %s ===\n", cfg.Name)
	if cfg.Description != "" {
		fmt.Fprintf(w, "%s\n", cfg.Description)
	}
	fmt.Fprintf(w, "Grid: %d x %d\n", p.Rows(), p.Cols())
	fmt.Fprintf(w, "Battery: %d\n", cfg.BatteryOrDefault())

	home := p.Home()
	fmt.Fprintf(w, "Home: (%d, %d)\n", home.Row, home.Col)

	free, water, obstructed := 0, 0, 0
	for _, row := range p.Layout() {
		for i := 0; i < len(row); i++ {
			switch row[i] {
			case planet.SymbolFree:
				free++
			case planet.SymbolWater:
				water++
			case planet.SymbolObstructed:
				obstructed++
			}
		}
	}
	fmt.Fprintf(w, "Terrain: %d free, %d water, %d obstructed\n", free, water, obstructed)
	fmt.Fprintf(w, "Traversable: %d of %d cells\n", p.TraversableCount(), p.Rows()*p.Cols())

	cutOff := cutOffCells(p)
	if len(cutOff) > 0 {
		fmt.Fprintf(w, "WARNING: %d traversable cells are cut off from home\n", len(cutOff))
		for i, c := range cutOff {
			if i >= 5 {
				fmt.Fprintf(w, "   ... and %d more\n", len(cutOff)-5)
				break
			}
			fmt.Fprintf(w, "   Cut off: (%d, %d)\n", c.Row, c.Col)
		}
	} else {
		fmt.Fprintf(w, "All traversable cells are connected to home\n")
	}

	return nil
}

// surveyPlanet runs a battery-constrained survey against the real terrain
// and reports the assembled map plus a breakdown of undiscovered tiles.
func surveyPlanet(w io.Writer, cfg *planet.Config, battery int) error {
	p, err := planet.FromConfig(cfg)
	if err != nil {
		return err
	}
	if battery <= 0 {
		battery = cfg.BatteryOrDefault()
	}

	rv := rover.New(p, battery)
	survey := explorer.Explore(rv, battery)
	grid := surveymap.Assemble(survey.Cells)

	fmt.Fprintf(w, "\n=== %s (battery %d) ===\n", cfg.Name, battery)
	if len(grid) == 0 {
		fmt.Fprintf(w, "(empty map: battery too small to leave home)\n")
	} else {
		fmt.Fprintf(w, "%s\n", surveymap.Render(grid))
		fmt.Fprintf(w, "Map: %d x %d\n", len(grid), len(grid[0]))
	}

	known, total := surveymap.Coverage(grid)
	fmt.Fprintf(w, "Discovered: %d cells (%d obstructed) in %d radius layers\n",
		survey.DiscoveredCount(), survey.ObstructedCount(), survey.Radius)
	fmt.Fprintf(w, "Coverage: %d/%d cells (%.1f%%)\n", known, total, surveymap.CoveragePercent(grid))
	fmt.Fprintf(w, "Moves: %d attempted, %d successful\n", len(rv.MoveLog()), rv.SuccessfulMoves())

	// Survey coordinates are rover-relative; shift by home to compare
	// against the absolute terrain grid.
	home := p.Home()
	discovered := make(map[planet.Coordinate]bool, len(survey.Cells))
	for c := range survey.Cells {
		discovered[planet.Coordinate{Row: home.Row + c.Row, Col: home.Col + c.Col}] = true
	}

	outOfRange, cutOff := 0, 0
	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			coord := planet.Coordinate{Row: r, Col: c}
			if !p.Traversable(coord) || discovered[coord] {
				continue
			}
			if p.Reachable(home, coord) {
				outOfRange++
			} else {
				cutOff++
			}
		}
	}

	if outOfRange == 0 && cutOff == 0 {
		fmt.Fprintf(w, "Every traversable cell was discovered\n")
	} else {
		fmt.Fprintf(w, "Unknown: %d cells out of battery range, %d cells cut off from home\n",
			outOfRange, cutOff)
	}

	return nil
}

// cutOffCells returns the traversable cells no path from home can reach.
func cutOffCells(p *planet.Planet) []planet.Coordinate {
	home := p.Home()
	var cells []planet.Coordinate

	for r := 0; r < p.Rows(); r++ {
		for c := 0; c < p.Cols(); c++ {
			coord := planet.Coordinate{Row: r, Col: c}
			if p.Traversable(coord) && !p.Reachable(home, coord) {
				cells = append(cells, coord)
			}
		}
	}

	return cells
}
