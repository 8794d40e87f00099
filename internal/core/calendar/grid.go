package calendar

import (
	"sort"

	"followstats/internal/core/stats"
	perr "followstats/internal/platform/errors"
)

// ErrIndexOutOfRange is returned for grid indexes outside [0, Cells)
var ErrIndexOutOfRange = perr.New(perr.ErrorCodeInvalidArgument, "calendar: index out of range")

// Cell is a display position after the grid flip
type Cell struct {
	Index  int `json:"index"`
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Cell maps display index i (row major over the unflipped grid) to its
// flipped position: rows count up from the bottom and columns from the right
func (p Period) Cell(i int) (Cell, error) {
	if i < 0 || i >= p.Cells {
		return Cell{}, ErrIndexOutOfRange
	}
	return Cell{
		Index:  i,
		Row:    p.Rows - 1 - i/p.Columns,
		Column: p.Columns - 1 - i%p.Columns,
	}, nil
}

// Flat returns the slot index shown at display index i, that is the
// flipped position read column by column
func (p Period) Flat(i int) (int, error) {
	c, err := p.Cell(i)
	if err != nil {
		return 0, err
	}
	return c.Column*p.Rows + c.Row, nil
}

// Placed is one slot on the grid. Data is nil when the slot lies past the
// end of the rollup.
type Placed struct {
	Cell
	// Flat is the column major position, the order cells are painted in
	Flat int         `json:"flat"`
	Slot int         `json:"slot"`
	Data *stats.Slot `json:"data"`
}

// Layout places slot k (0 is the newest unit) at Cell(k). The result is
// ordered by Flat.
func Layout(p Period, slots []stats.Slot) ([]Placed, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]Placed, 0, p.Cells)
	for k := range p.Cells {
		c, _ := p.Cell(k)
		pl := Placed{Cell: c, Flat: c.Column*p.Rows + c.Row, Slot: k}
		if k < len(slots) {
			pl.Data = &slots[k]
		}
		out = append(out, pl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Flat < out[j].Flat })
	return out, nil
}
