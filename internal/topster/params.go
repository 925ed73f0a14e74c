package topster

import (
	"image/color"
	"net/url"
	"strconv"

	imagepkg "github.com/youruser/topster/internal/image"
	"github.com/youruser/topster/internal/layout"
	"github.com/youruser/topster/internal/links"
)

// Gaps bounds the spacing between cells.
var Gaps = layout.Range{Min: 0, Max: 60, Default: 10}

// Params is a fully clamped render request. Output geometry is a pure
// function of it.
type Params struct {
	Theme      layout.Theme
	CellBase   int
	Gap        int
	Background color.NRGBA
	Links      url.Values
}

// ParseParams reads the query string of a poster request. Out of range or
// unparsable values are clamped or defaulted, never rejected.
func ParseParams(q url.Values) Params {
	theme := layout.ThemeByName(
		q.Get("theme"),
		layout.GridSides.Parse(q.Get("w")),
		layout.GridSides.Parse(q.Get("h")),
	)

	bg := q.Get("bg")
	if bg == "" {
		bg = imagepkg.DefaultBackground
	}
	return Params{
		Theme:      theme,
		CellBase:   theme.CellRange().Parse(q.Get("cell")),
		Gap:        Gaps.Parse(q.Get("gap")),
		Background: imagepkg.BackgroundOrDefault(bg),
		Links:      q,
	}
}

// PlayerQuery is the canonical query for the interactive page: the theme
// and the occupied cells, with start offsets preserved.
func (p Params) PlayerQuery() url.Values {
	q := url.Values{}
	switch t := p.Theme.(type) {
	case layout.Grid:
		q.Set("w", strconv.Itoa(t.Columns))
		q.Set("h", strconv.Itoa(t.Rows))
	default:
		q.Set("theme", t.Name())
	}
	links.Encode(links.Resolve(p.Theme.Plan(p.CellBase, p.Gap).Cells, p.Links), q)
	return q
}
