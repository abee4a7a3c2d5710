package explorer

import (
	"github.com/planetintel/rover-expedition/expedition/planet"
)

// Extent bounds obstruction recording for the full survey: refusals whose
// target lies outside the extent are grid edges, not terrain.
type Extent interface {
	InBounds(c planet.Coordinate) bool
}

// frame is one level of the iterative depth-first traversal: a visited
// position, the direction used to enter it, and the next direction index
// to try.
type frame struct {
	pos     planet.Coordinate
	entered planet.Direction
	nextDir int
	root    bool
}

// FullSurvey maps the entire surface reachable from start, ignoring
// battery. The rover must be unbounded and parked on start. Coordinates in
// the returned survey are absolute grid coordinates.
//
// The traversal is depth-first with an explicit stack: entering an
// unvisited neighbor pushes a frame, exhausting a frame's directions moves
// the rover back the way it came and pops.
func FullSurvey(rv Mobile, ext Extent, start planet.Coordinate) *Survey {
	s := newSurvey(start)
	s.Cells[start] = rv.LocationSymbol()

	visited := map[planet.Coordinate]bool{start: true}
	stack := []frame{{pos: start, root: true}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.nextDir >= len(planet.Directions()) {
			if !f.root {
				rv.Move(f.entered.Opposite())
			}
			stack = stack[:len(stack)-1]
			continue
		}

		d := planet.Directions()[f.nextDir]
		f.nextDir++

		neighbor := f.pos.Step(d)
		if visited[neighbor] {
			continue
		}

		ok, _ := rv.Move(d)
		if !ok {
			if _, known := s.Cells[neighbor]; !known && ext.InBounds(neighbor) {
				s.Cells[neighbor] = planet.SymbolObstructed
			}
			continue
		}

		visited[neighbor] = true
		s.Cells[neighbor] = rv.LocationSymbol()
		stack = append(stack, frame{pos: neighbor, entered: d})
	}

	return s
}
