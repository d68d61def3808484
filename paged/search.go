package paged

import (
	"cmp"
)

// FindRow binary searches the rows known so far. compare must order rows by
// a strictly monotonic key: negative when the row sorts before the wanted key,
// zero on a match, positive after it.
//
// On a match it returns the row, its page and its absolute index. Otherwise
// the row is nil, the page is the resident page at (or ending at) the
// insertion index, and the index is where the key would be inserted.
//
// FindRow never reads. Probing a row that is not resident panics with an
// InvariantViolation; load the region first.
func (p *Pager) FindRow(compare func(Row) int) (Row, *Page, int) {

	lo, hi := 0, p.size.Known()
	var page *Page

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)

		// Consecutive probes often land in the same page
		if page == nil || !page.Contains(mid) {
			page = p.cache.FindContaining(mid)
			if page == nil {
				violation("search probed row %d which is not resident", mid)
			}
		}

		row := page.Row(mid - page.offset)
		c := compare(row)
		if c == 0 {
			return row, page, mid
		}
		if c < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return nil, p.insertionPage(lo), lo
}

// FindRowByKey is FindRow for rows whose key can be extracted and ordered.
func FindRowByKey[K cmp.Ordered](p *Pager, key func(Row) K, value K) (Row, *Page, int) {
	return p.FindRow(func(row Row) int {
		return cmp.Compare(key(row), value)
	})
}

func (p *Pager) insertionPage(index int) *Page {
	if page := p.cache.FindContaining(index); page != nil {
		return page
	}
	if index > 0 {
		return p.cache.FindContaining(index - 1)
	}
	return nil
}
