package planet

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyLayout = errors.New("layout is empty")
	ErrNoHome      = errors.New("layout must contain exactly one home (H) cell")
)

// Planet is an immutable rectangular terrain grid with a single home cell.
type Planet struct {
	rows []string
	home Coordinate
}

// New builds a planet from layout strings. Rows must be non-empty, uniform
// in width, contain only legal terrain symbols, and include exactly one 'H'.
func New(layout []string) (*Planet, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, ErrEmptyLayout
	}

	width := len(layout[0])
	homeCount := 0
	var home Coordinate

	for r, row := range layout {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has width %d, expected %d", r, len(row), width)
		}
		for c := 0; c < len(row); c++ {
			switch row[c] {
			case SymbolFree, SymbolWater, SymbolObstructed:
			case SymbolHome:
				homeCount++
				home = Coordinate{Row: r, Col: c}
			default:
				return nil, fmt.Errorf("invalid terrain symbol %q at row %d, col %d", row[c], r, c)
			}
		}
	}

	if homeCount != 1 {
		return nil, ErrNoHome
	}

	rows := make([]string, len(layout))
	copy(rows, layout)

	return &Planet{rows: rows, home: home}, nil
}

// FromConfig builds a planet from a validated configuration.
func FromConfig(cfg *Config) (*Planet, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return New(cfg.Layout)
}

// Home returns the absolute grid coordinate of the home cell.
func (p *Planet) Home() Coordinate {
	return p.home
}

// Rows returns the number of grid rows.
func (p *Planet) Rows() int {
	return len(p.rows)
}

// Cols returns the number of grid columns.
func (p *Planet) Cols() int {
	return len(p.rows[0])
}

// InBounds reports whether the coordinate lies on the grid.
func (p *Planet) InBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Row < len(p.rows) && c.Col >= 0 && c.Col < len(p.rows[0])
}

// SymbolAt returns the terrain symbol at the coordinate, or false when the
// coordinate is off the grid.
func (p *Planet) SymbolAt(c Coordinate) (byte, bool) {
	if !p.InBounds(c) {
		return 0, false
	}
	return p.rows[c.Row][c.Col], true
}

// Traversable reports whether a rover could in principle occupy the cell.
func (p *Planet) Traversable(c Coordinate) bool {
	sym, ok := p.SymbolAt(c)
	return ok && sym != SymbolObstructed
}

// Layout returns a copy of the raw layout rows.
func (p *Planet) Layout() []string {
	rows := make([]string, len(p.rows))
	copy(rows, p.rows)
	return rows
}

// Reachable reports whether target can be reached from start by some
// sequence of moves through traversable cells, ignoring battery entirely.
// Used by offline analysis to classify unknown tiles.
func (p *Planet) Reachable(start, target Coordinate) bool {
	if !p.InBounds(start) || !p.InBounds(target) {
		return false
	}
	if start == target {
		return true
	}

	queue := []Coordinate{start}
	seen := map[Coordinate]bool{start: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, d := range Directions() {
			next := cur.Step(d)
			if !p.InBounds(next) {
				continue
			}
			if next == target {
				return true
			}
			if seen[next] || !p.Traversable(next) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}

	return false
}

// TraversableCount returns the number of cells a rover could occupy.
func (p *Planet) TraversableCount() int {
	count := 0
	for _, row := range p.rows {
		for i := 0; i < len(row); i++ {
			if row[i] != SymbolObstructed {
				count++
			}
		}
	}
	return count
}
