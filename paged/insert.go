package paged

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// InsertRow adds row to a mutable source at the sorted position given by
// compare (see FindRow) and mirrors it in the resident page. Later resident
// pages shift by one row. The region around the insertion point must be
// resident.
//
// It returns the page that received the row and the row index within it.
func (p *Pager) InsertRow(ctx context.Context, row Row, compare func(Row) int) (*Page, int, error) {

	inserter, ok := p.source.(Inserter)
	if !ok {
		return nil, 0, ErrReadOnly
	}

	match, page, index := p.FindRow(compare)
	if match != nil {
		return nil, 0, errors.Wrapf(ErrDuplicateRow, "index %d", index)
	}
	if page == nil && p.size.Estimated() > 0 {
		violation("insertion point %d is not resident", index)
	}

	err := inserter.InsertRow(ctx, index, row)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "insert row at %d", index)
	}

	if page == nil {
		page = newPage(index, []Row{row})
		p.cache.Store(page, p.cache.Before(index))
	} else {
		p.cache.shiftAfter(page, 1)
		page.insert(index-page.offset, row)
	}
	p.size.inserted()

	inPage := index - page.offset
	p.log.WithFields(logrus.Fields{
		"index": index,
		"page":  page.offset,
	}).Debug("row inserted")
	p.insertListeners.emit(RowInserted{Page: page, Index: inPage})

	return page, inPage, nil
}

// RowsAppended tells the pager that n rows were added to the source after
// its last row, bypassing InsertRow. The estimate grows by n and a size
// change is emitted; resident pages are left as they are and the new rows
// are read on demand.
func (p *Pager) RowsAppended(n int) {
	if n == 0 {
		return
	}
	p.size.Appended(n)
}
