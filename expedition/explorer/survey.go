package explorer

import (
	"github.com/planetintel/rover-expedition/expedition/planet"
)

// Survey is the outcome of an exploration run: every cell the rover
// directly observed, keyed by coordinate. For the constrained strategy the
// coordinates are rover-relative (home is (0,0)); for the full survey they
// are absolute grid coordinates.
//
// Cells grow monotonically during a run and are never downgraded: once a
// coordinate is known free or obstructed it keeps that symbol.
type Survey struct {
	Home   planet.Coordinate
	Cells  map[planet.Coordinate]byte
	Radius int

	parents map[planet.Coordinate]planet.Coordinate
}

func newSurvey(home planet.Coordinate) *Survey {
	return &Survey{
		Home:    home,
		Cells:   make(map[planet.Coordinate]byte),
		parents: make(map[planet.Coordinate]planet.Coordinate),
	}
}

// Restore rebuilds a survey from persisted cells. Parent links are not
// part of the persisted form, so PathTo is unavailable on a restored
// survey.
func Restore(home planet.Coordinate, cells map[planet.Coordinate]byte, radius int) *Survey {
	s := newSurvey(home)
	for c, sym := range cells {
		s.Cells[c] = sym
	}
	s.Radius = radius
	return s
}

// Parent returns the coordinate that discovered c, if any. Home has no
// parent.
func (s *Survey) Parent(c planet.Coordinate) (planet.Coordinate, bool) {
	p, ok := s.parents[c]
	return p, ok
}

// PathTo reconstructs the direction sequence from home to target by walking
// parent links backwards and reversing. The result's length equals the BFS
// layer at which target was discovered.
//
// Must only be called for home or a coordinate the constrained explorer
// entered; the parent chain of anything else is undefined.
func (s *Survey) PathTo(target planet.Coordinate) []planet.Direction {
	var path []planet.Direction

	cur := target
	for cur != s.Home {
		parent := s.parents[cur]
		for _, d := range planet.Directions() {
			if parent.Step(d) == cur {
				path = append(path, d)
				break
			}
		}
		cur = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// DiscoveredCount returns the number of observed cells, obstructions
// included.
func (s *Survey) DiscoveredCount() int {
	return len(s.Cells)
}

// ObstructedCount returns the number of cells recorded as obstructed.
func (s *Survey) ObstructedCount() int {
	count := 0
	for _, sym := range s.Cells {
		if sym == planet.SymbolObstructed {
			count++
		}
	}
	return count
}
