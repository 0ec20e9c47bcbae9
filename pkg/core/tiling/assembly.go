package tiling

import (
	"fmt"
	"math"
	"strings"
)

// AssemblyMap tells the reader how to put the printed tiles back together.
type AssemblyMap struct {
	Rows         int        `json:"rows"`
	Cols         int        `json:"cols"`
	Overlap      float64    `json:"overlap"`
	Cells        [][]string `json:"cells"`
	Instructions []string   `json:"instructions"`
}

// AssemblyMap summarises the grid. Cells[r][c] is the 1-based tile number
// printed at row r, column c.
func (g *Grid) AssemblyMap() AssemblyMap {
	m := AssemblyMap{Rows: g.Rows, Cols: g.Cols, Overlap: g.Overlap}
	m.Cells = make([][]string, g.Rows)
	for r := range m.Cells {
		m.Cells[r] = make([]string, g.Cols)
		for c := range m.Cells[r] {
			m.Cells[r][c] = fmt.Sprint(r*g.Cols + c + 1)
		}
	}
	m.Instructions = instructions(g)
	return m
}

func instructions(g *Grid) []string {
	n := g.Rows * g.Cols
	pct := int(math.Round(g.Overlap * 100))
	lines := []string{
		fmt.Sprintf("Total tiles: %d (%d rows x %d columns)", n, g.Rows, g.Cols),
		fmt.Sprintf("Overlap: %d%%", pct),
		fmt.Sprintf("1. Print all %d tile pages on swell paper.", n),
		fmt.Sprintf("2. Arrange the tiles in a %dx%d grid:", g.Rows, g.Cols),
	}
	for r := 0; r < g.Rows; r++ {
		first, last := r*g.Cols+1, (r+1)*g.Cols
		var where string
		switch {
		case g.Rows == 1:
		case r == 0:
			where = " (top)"
		case r == g.Rows-1:
			where = " (bottom)"
		}
		span := fmt.Sprint(first)
		if last > first {
			span = fmt.Sprintf("%d-%d", first, last)
		}
		lines = append(lines, fmt.Sprintf("   Row %d%s: tiles %s", r+1, where, span))
	}
	step := 4
	if pct > 0 {
		lines = append(lines,
			"3. Align neighbouring tiles on the crosshair registration marks near each corner.",
			fmt.Sprintf("4. Each tile overlaps its neighbours by %d%%; lay the overlap strips on top of each other.", pct),
		)
		step = 5
	} else {
		lines = append(lines, "3. Butt the tiles edge to edge; they do not overlap.")
	}
	lines = append(lines, fmt.Sprintf("%d. Tape the tiles together from the back.", step))
	return lines
}

// String renders the map as plain text, one row per line.
func (m AssemblyMap) String() string {
	var b strings.Builder
	for _, row := range m.Cells {
		for c, cell := range row {
			if c > 0 {
				b.WriteString(" | ")
			}
			fmt.Fprintf(&b, "%3s", cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
