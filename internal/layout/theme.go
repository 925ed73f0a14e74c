package layout

import (
	"math"
	"strconv"
	"strings"
)

// Range bounds an integer request parameter such as a cell size.
type Range struct {
	Min, Max, Default int
}

// Clamp limits v to the range.
func (r Range) Clamp(v int) int {
	return max(r.Min, min(r.Max, v))
}

// Parse reads the leading integer of v ("12px" is 12) and clamps it. A
// value with no leading integer yields Default.
func (r Range) Parse(v string) int {
	n, ok := leadingInt(v)
	if !ok {
		return r.Default
	}
	return r.Clamp(n)
}

func leadingInt(v string) (int, bool) {
	s := strings.TrimSpace(v)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// overflow: saturate in the direction of the sign
		if s[0] == '-' {
			return math.MinInt, true
		}
		return math.MaxInt, true
	}
	return n, true
}

// Theme is a named layout strategy. Plan must be deterministic.
type Theme interface {
	Name() string
	CellRange() Range
	Plan(cellBase, gap int) Layout
}

// GridSides bounds the w and h of a plain grid.
var GridSides = Range{Min: 1, Max: 10, Default: 3}

var gridCellRange = Range{Min: 120, Max: 700, Default: 360}

// Grid is a plain Columns x Rows rectangle of equal cells.
type Grid struct {
	Columns int
	Rows    int
}

func (g Grid) Name() string     { return "grid" }
func (g Grid) CellRange() Range { return gridCellRange }

// Tier is one band of a hierarchical layout. All cells in a tier share a size.
type Tier struct {
	Name    string
	Columns int
	Rows    int
}

// Hierarchy stacks tiers top to bottom. Every tier spans the same total width,
// fixed by ReferenceColumns cells of the base size.
type Hierarchy struct {
	Label            string
	ReferenceColumns int
	Tiers            []Tier
	Cells            Range
}

func (h Hierarchy) Name() string     { return h.Label }
func (h Hierarchy) CellRange() Range { return h.Cells }

// Count returns the number of cells across all tiers.
func (h Hierarchy) Count() int {
	n := 0
	for _, t := range h.Tiers {
		n += t.Columns * t.Rows
	}
	return n
}

// Classic42 is 10 large, 12 medium and 20 small cells. The cell ceiling is
// lower than the grid's because every render fans out 42 fetches.
var Classic42 = Hierarchy{
	Label:            "classic",
	ReferenceColumns: 10,
	Tiers: []Tier{
		{Name: "large", Columns: 5, Rows: 2},
		{Name: "medium", Columns: 6, Rows: 2},
		{Name: "small", Columns: 10, Rows: 2},
	},
	Cells: Range{Min: 80, Max: 240, Default: 160},
}

// ThemeByName maps the theme query value to a Theme. Anything other than
// "classic" is a grid of w x h, with both sides clamped.
func ThemeByName(name string, w, h int) Theme {
	if name == Classic42.Label {
		return Classic42
	}
	return Grid{
		Columns: GridSides.Clamp(w),
		Rows:    GridSides.Clamp(h),
	}
}
