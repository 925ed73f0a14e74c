package links

import (
	"net/url"
	"strconv"

	"github.com/youruser/topster/internal/layout"
)

// Slot is an occupied cell.
type Slot struct {
	Cell layout.Cell
	Link Link
}

// Key returns the query parameter carrying the content of cell index i.
func Key(i int) string {
	return "link" + strconv.Itoa(i+1)
}

// Resolve pairs each planned cell with its 1-indexed link parameter. Cells
// without a usable parameter are left out. Ids are not validated here; an id
// that is not real simply fails every thumbnail fetch.
func Resolve(cells []layout.Cell, params url.Values) []Slot {
	var out []Slot
	for _, c := range cells {
		l, ok := Parse(params.Get(Key(c.Index)))
		if !ok {
			continue
		}
		out = append(out, Slot{Cell: c, Link: l})
	}
	return out
}

// Encode writes slots back into query form, the inverse of Resolve.
func Encode(slots []Slot, q url.Values) {
	for _, s := range slots {
		q.Set(Key(s.Cell.Index), s.Link.String())
	}
}
