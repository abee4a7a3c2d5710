// Package surveymap turns the explorer's sparse discovered-cell map into a
// dense rectangular grid suitable for rendering and reporting.
package surveymap

import (
	"strings"

	"github.com/planetintel/rover-expedition/expedition/planet"
)

// Assemble converts a sparse discovered map into a dense grid. The bounding
// box covers non-obstructed cells only, so a lone known obstruction outside
// the traveled region cannot inflate the map; obstructions inside the box
// still contribute their markers. Unknown cells hold '?'. Border rows and
// columns that are entirely unknown are trimmed, one pass per axis (rows
// first, then columns).
//
// When no non-obstructed cell exists the result is an empty grid.
func Assemble(cells map[planet.Coordinate]byte) [][]byte {
	minRow, maxRow := 0, 0
	minCol, maxCol := 0, 0
	found := false

	for c, sym := range cells {
		if sym == planet.SymbolObstructed {
			continue
		}
		if !found {
			minRow, maxRow = c.Row, c.Row
			minCol, maxCol = c.Col, c.Col
			found = true
			continue
		}
		if c.Row < minRow {
			minRow = c.Row
		}
		if c.Row > maxRow {
			maxRow = c.Row
		}
		if c.Col < minCol {
			minCol = c.Col
		}
		if c.Col > maxCol {
			maxCol = c.Col
		}
	}

	if !found {
		return [][]byte{}
	}

	height := maxRow - minRow + 1
	width := maxCol - minCol + 1

	grid := make([][]byte, height)
	for i := range grid {
		grid[i] = make([]byte, width)
		for j := range grid[i] {
			grid[i][j] = planet.SymbolUnknown
		}
	}

	for c, sym := range cells {
		r, col := c.Row-minRow, c.Col-minCol
		if r >= 0 && r < height && col >= 0 && col < width {
			grid[r][col] = sym
		}
	}

	return trimUnknownBorder(grid)
}

// trimUnknownBorder removes leading/trailing all-unknown rows, then
// leading/trailing all-unknown columns. Rows are not re-trimmed after the
// column pass.
func trimUnknownBorder(grid [][]byte) [][]byte {
	for len(grid) > 0 && allUnknown(grid[0]) {
		grid = grid[1:]
	}
	for len(grid) > 0 && allUnknown(grid[len(grid)-1]) {
		grid = grid[:len(grid)-1]
	}
	if len(grid) == 0 {
		return [][]byte{}
	}

	left, right := 0, len(grid[0])
	for left < right && columnUnknown(grid, left) {
		left++
	}
	for right > left && columnUnknown(grid, right-1) {
		right--
	}

	trimmed := make([][]byte, len(grid))
	for i, row := range grid {
		trimmed[i] = row[left:right]
	}
	return trimmed
}

func allUnknown(row []byte) bool {
	for _, sym := range row {
		if sym != planet.SymbolUnknown {
			return false
		}
	}
	return true
}

func columnUnknown(grid [][]byte, col int) bool {
	for _, row := range grid {
		if row[col] != planet.SymbolUnknown {
			return false
		}
	}
	return true
}

// Render joins the dense grid into newline-separated rows.
func Render(grid [][]byte) string {
	lines := Lines(grid)
	return strings.Join(lines, "\n")
}

// Lines returns each grid row as a string.
func Lines(grid [][]byte) []string {
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

// Coverage returns the number of known cells and the total cell count of
// the dense grid.
func Coverage(grid [][]byte) (known, total int) {
	for _, row := range grid {
		total += len(row)
		for _, sym := range row {
			if sym != planet.SymbolUnknown {
				known++
			}
		}
	}
	return known, total
}

// CoveragePercent returns known/total as a percentage; zero for an empty
// grid.
func CoveragePercent(grid [][]byte) float64 {
	known, total := Coverage(grid)
	if total == 0 {
		return 0
	}
	return 100 * float64(known) / float64(total)
}
