package explorer

import (
	"github.com/planetintel/rover-expedition/expedition/planet"
	"github.com/planetintel/rover-expedition/expedition/rover"
)

// Mobile is the movement contract the explorer drives. *rover.Rover
// satisfies it; tests may substitute their own.
type Mobile interface {
	// Move attempts one step and reports whether it happened, with a
	// reason when it did not.
	Move(d planet.Direction) (bool, rover.MoveReason)

	// LocationSymbol returns the terrain symbol of the occupied cell.
	LocationSymbol() byte
}

// Explore maps the region of an unknown planet that a rover with the given
// battery capacity can visit and still return home. The rover must start
// on the home cell with a full battery; it exclusively belongs to the
// explorer for the duration of the call and is parked back home when
// Explore returns.
//
// Coordinates in the returned survey are rover-relative: home is (0,0).
func Explore(rv Mobile, battery int) *Survey {
	home := planet.Coordinate{}

	s := newSurvey(home)
	s.Cells[home] = rv.LocationSymbol()

	frontier := []planet.Coordinate{home}
	radius := 0

	// Reaching and leaving the next layer costs at least 2*(radius+1)
	// moves before any probing, so stop once even that cannot fit.
	for len(frontier) > 0 && 2*(radius+1) <= battery {
		var next []planet.Coordinate

		for _, tile := range frontier {
			path := s.PathTo(tile)
			travel(rv, path)

			for _, d := range planet.Directions() {
				neighbor := tile.Step(d)
				if _, known := s.Cells[neighbor]; known {
					continue
				}
				if roundTripCost(len(path), neighbor, home) > battery {
					continue
				}

				ok, reason := rv.Move(d)
				if !ok {
					if reason == rover.ReasonObstructed {
						s.Cells[neighbor] = planet.SymbolObstructed
					}
					// Any other refusal is a transient skip.
					continue
				}

				s.Cells[neighbor] = rv.LocationSymbol()
				s.parents[neighbor] = tile
				next = append(next, neighbor)

				// Step back so the remaining directions probe from tile.
				rv.Move(d.Opposite())
			}

			travel(rv, reversePath(path))
		}

		frontier = next
		radius++
	}

	s.Radius = radius
	return s
}

// travel issues each move of a previously validated path in sequence.
func travel(rv Mobile, path []planet.Direction) {
	for _, d := range path {
		rv.Move(d)
	}
}

// reversePath returns the path that undoes path, step by step.
func reversePath(path []planet.Direction) []planet.Direction {
	reversed := make([]planet.Direction, 0, len(path))
	for i := len(path) - 1; i >= 0; i-- {
		reversed = append(reversed, path[i].Opposite())
	}
	return reversed
}

// roundTripCost estimates the battery needed to walk to a frontier tile,
// take one probing step to neighbor, and return home. The return leg uses
// the Manhattan distance: an admissible lower bound, so the gate may skip
// a reachable cell but never overspends the budget.
func roundTripCost(pathLen int, neighbor, home planet.Coordinate) int {
	return pathLen + 1 + planet.Manhattan(neighbor, home)
}
