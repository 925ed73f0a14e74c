package layout

import (
	"image"
	"math"
)

// Cell is one square slot. Coordinates stay fractional until placement so
// rounding errors do not compound across tiers.
type Cell struct {
	Index int
	Tier  string
	X, Y  float64
	Size  float64
}

// Rect returns the square pixel rectangle the cell occupies. Each edge is
// rounded on its own, so a cell never reaches past round(x+size) and
// therefore never into a neighbour's rounded origin. The side may come out
// 1px shorter than round(size).
func (c Cell) Rect() image.Rectangle {
	x, y := round(c.X), round(c.Y)
	s := min(round(c.X+c.Size)-x, round(c.Y+c.Size)-y)
	return image.Rect(x, y, x+s, y+s)
}

// PixelSize is the side length of Rect.
func (c Cell) PixelSize() int { return c.Rect().Dx() }

// Layout is the planned geometry for one render.
type Layout struct {
	Width, Height float64
	Cells         []Cell
}

// Bounds returns the canvas size in whole pixels.
func (l Layout) Bounds() (int, int) {
	return round(l.Width), round(l.Height)
}

func round(v float64) int { return int(math.Round(v)) }

// Plan lays out a w x h grid. Cell i sits at row i/w, column i%w.
func (g Grid) Plan(cellBase, gap int) Layout {
	size, step := float64(cellBase), float64(cellBase+gap)
	l := Layout{
		Width:  float64(g.Columns*cellBase + (g.Columns-1)*gap),
		Height: float64(g.Rows*cellBase + (g.Rows-1)*gap),
		Cells:  make([]Cell, 0, g.Columns*g.Rows),
	}
	for i := 0; i < g.Columns*g.Rows; i++ {
		l.Cells = append(l.Cells, Cell{
			Index: i,
			Tier:  "grid",
			X:     float64(i%g.Columns) * step,
			Y:     float64(i/g.Columns) * step,
			Size:  size,
		})
	}
	return l
}

// Plan stacks the tiers. Tier cell size is (totalWidth - (cols-1)*gap)/cols,
// so the reference tier gets exactly cellBase.
func (h Hierarchy) Plan(cellBase, gap int) Layout {
	g := float64(gap)
	total := float64(h.ReferenceColumns*cellBase) + float64(h.ReferenceColumns-1)*g

	l := Layout{Width: total, Cells: make([]Cell, 0, h.Count())}
	y := 0.0
	for _, t := range h.Tiers {
		size := (total - float64(t.Columns-1)*g) / float64(t.Columns)
		for r := 0; r < t.Rows; r++ {
			for c := 0; c < t.Columns; c++ {
				l.Cells = append(l.Cells, Cell{
					Index: len(l.Cells),
					Tier:  t.Name,
					X:     float64(c) * (size + g),
					Y:     y,
					Size:  size,
				})
			}
			y += size + g
		}
	}
	l.Height = y - g
	return l
}
