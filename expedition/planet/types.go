package planet

import "fmt"

// Terrain symbols used in planet layouts and survey maps.
const (
	SymbolHome       byte = 'H'
	SymbolFree       byte = '.'
	SymbolWater      byte = 'w'
	SymbolObstructed byte = 'X'
	SymbolUnknown    byte = '?'

	// Validation constants
	MinGridRows = 1
	MinGridCols = 1
	MaxGridRows = 100
	MaxGridCols = 100
)

// Coordinate is a row/col position on a planet grid. The explorer uses
// rover-relative coordinates where home is (0,0); the rover and the
// unconstrained survey use absolute grid coordinates.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is one of the four compass directions a rover can move in.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

// directions is the fixed probe order used throughout the explorer.
var directions = [4]Direction{North, South, East, West}

// Directions returns the four compass directions in their fixed canonical
// order (N, S, E, W). The order matters: it makes exploration deterministic.
func Directions() [4]Direction {
	return directions
}

// Delta returns the row/col offset of one step in the direction.
func (d Direction) Delta() (dRow, dCol int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// Opposite returns the reverse direction (N<->S, E<->W).
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return d
}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case South:
		return "south"
	case East:
		return "east"
	case West:
		return "west"
	}
	return "unknown"
}

// Mark returns the single-letter compass mark ("N", "S", "E", "W").
func (d Direction) Mark() string {
	return [...]string{"N", "S", "E", "W"}[d]
}

// ParseDirection accepts either the full lowercase name or the single-letter
// compass mark.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "north", "N", "n":
		return North, nil
	case "south", "S", "s":
		return South, nil
	case "east", "E", "e":
		return East, nil
	case "west", "W", "w":
		return West, nil
	}
	return 0, fmt.Errorf("invalid direction %q", s)
}

// Step returns the neighboring coordinate one move away in the direction.
func (c Coordinate) Step(d Direction) Coordinate {
	dr, dc := d.Delta()
	return Coordinate{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan returns the Manhattan distance between two coordinates.
func Manhattan(a, b Coordinate) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}
