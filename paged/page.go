package paged

import "fmt"

// Page is a contiguous run of rows read in one backend call, tagged with the
// logical index of its first row.
type Page struct {
	offset int
	rows   []Row
}

func newPage(offset int, rows []Row) *Page {
	return &Page{
		offset: offset,
		rows:   rows,
	}
}

// Offset is the logical index of the first row of the page.
func (p *Page) Offset() int {
	return p.offset
}

// Len returns the number of rows in the page.
func (p *Page) Len() int {
	return len(p.rows)
}

// End is the logical index right after the last row of the page.
func (p *Page) End() int {
	return p.offset + len(p.rows)
}

// Row returns row i, relative to the page.
func (p *Page) Row(i int) Row {
	return p.rows[i]
}

// Rows returns a copy of the row list.
func (p *Page) Rows() []Row {
	rows := make([]Row, len(p.rows))
	copy(rows, p.rows)
	return rows
}

// Contains tells if the absolute row index falls inside the page.
func (p *Page) Contains(index int) bool {
	return index >= p.offset && index < p.End()
}

func (p *Page) String() string {
	return fmt.Sprintf("<Page offset %d, %d rows>", p.offset, len(p.rows))
}

// insert puts row at position i (relative to the page). The row list is
// rebuilt so slices handed out by the source are never written.
func (p *Page) insert(i int, row Row) {
	rows := make([]Row, 0, len(p.rows)+1)
	rows = append(rows, p.rows[:i]...)
	rows = append(rows, row)
	rows = append(rows, p.rows[i:]...)
	p.rows = rows
}
