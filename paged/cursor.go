package paged

import "context"

// Cursor points at one row of a resident page. It is a value: moving it
// returns a new Cursor and leaves the old one untouched.
type Cursor struct {
	Page  *Page
	Index int
}

// Row returns the row under the cursor.
func (c Cursor) Row() Row {
	return c.Page.Row(c.Index)
}

// Absolute returns the logical index of the row under the cursor.
func (c Cursor) Absolute() int {
	return c.Page.offset + c.Index
}

// Begin returns a cursor on the first row. ok is false on an empty source.
func (p *Pager) Begin(ctx context.Context) (cursor Cursor, ok bool, err error) {
	page, err := p.FirstPage(ctx)
	if err != nil || page == nil {
		return Cursor{}, false, err
	}
	return Cursor{Page: page}, true, nil
}

// Seek returns a cursor on the row at about position (see
// GetPageForPosition).
func (p *Pager) Seek(ctx context.Context, position float64) (cursor Cursor, ok bool, err error) {
	page, err := p.GetPageForPosition(ctx, position)
	if err != nil || page == nil {
		return Cursor{}, false, err
	}
	index := targetRow(position, p.size.Estimated()) - page.offset
	if index < 0 || index >= page.Len() {
		index = 0
	}
	return Cursor{Page: page, Index: index}, true, nil
}

// Advance returns a cursor on the row after c, reading the next page when c
// is on the last row of its page. ok is false at the end of the data.
func (p *Pager) Advance(ctx context.Context, c Cursor) (next Cursor, ok bool, err error) {
	if c.Index+1 < c.Page.Len() {
		return Cursor{Page: c.Page, Index: c.Index + 1}, true, nil
	}
	page, err := p.NextPage(ctx, c.Page)
	if err != nil || page == nil {
		return Cursor{}, false, err
	}
	return Cursor{Page: page}, true, nil
}
