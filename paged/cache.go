package paged

import (
	"github.com/google/btree"
)

// PageCache keeps the resident pages sorted by offset. Pages never overlap;
// gaps are regions that have not been read yet.
type PageCache struct {
	tree *btree.BTreeG[*Page]
}

func NewPageCache() *PageCache {
	return &PageCache{
		tree: btree.NewG(32, func(a, b *Page) bool {
			return a.offset < b.offset
		}),
	}
}

func pivot(offset int) *Page {
	return &Page{offset: offset}
}

// Len returns the number of resident pages.
func (c *PageCache) Len() int {
	return c.tree.Len()
}

// Store inserts page in its sorted position. after, when given, must be the
// resident page that precedes page in the cache; it saves the predecessor
// lookup. Breaking the ordering panics with an InvariantViolation.
func (c *PageCache) Store(page *Page, after *Page) {

	if page.Len() == 0 {
		violation("store of an empty page at offset %d", page.offset)
	}
	if c.tree.Has(page) {
		violation("store of %s overlaps a resident page at the same offset", page)
	}

	prev := after
	if after == nil {
		prev = c.Before(page.offset)
	} else {
		if !c.Resident(after) {
			violation("store hint %s is not resident", after)
		}
		if after.offset >= page.offset {
			violation("store hint %s does not precede %s", after, page)
		}
		if next := c.firstFrom(after.offset + 1); next != nil && next.offset <= page.offset {
			violation("store hint %s is not adjacent to %s", after, page)
		}
	}

	if prev != nil && prev.End() > page.offset {
		violation("store of %s overlaps %s", page, prev)
	}
	if next := c.firstFrom(page.offset + 1); next != nil && page.End() > next.offset {
		violation("store of %s overlaps %s", page, next)
	}

	c.tree.ReplaceOrInsert(page)
}

// Resident tells if this exact page is stored in the cache.
func (c *PageCache) Resident(page *Page) bool {
	if page == nil {
		return false
	}
	found, ok := c.tree.Get(page)
	return ok && found == page
}

// FindContaining returns the resident page holding row index, or nil.
func (c *PageCache) FindContaining(index int) *Page {
	page := c.Before(index)
	if page == nil || !page.Contains(index) {
		return nil
	}
	return page
}

// FindSuccessorOf returns the resident page starting right where page ends.
// It returns nil when nothing is resident there or there is a gap.
func (c *PageCache) FindSuccessorOf(page *Page) *Page {
	next := c.firstFrom(page.offset + 1)
	if next == nil || next.offset != page.End() {
		return nil
	}
	return next
}

// StartingAt returns the resident page whose first row is offset.
func (c *PageCache) StartingAt(offset int) *Page {
	page, ok := c.tree.Get(pivot(offset))
	if !ok {
		return nil
	}
	return page
}

// Before returns the resident page with the greatest offset <= offset.
func (c *PageCache) Before(offset int) (found *Page) {
	c.tree.DescendLessOrEqual(pivot(offset), func(page *Page) bool {
		found = page
		return false
	})
	return
}

// firstFrom returns the resident page with the smallest offset >= offset.
func (c *PageCache) firstFrom(offset int) (found *Page) {
	c.tree.AscendGreaterOrEqual(pivot(offset), func(page *Page) bool {
		found = page
		return false
	})
	return
}

// Overlapping lists, in order, the resident pages intersecting [from, to).
func (c *PageCache) Overlapping(from, to int) []*Page {
	pages := []*Page{}
	if from >= to {
		return pages
	}
	start := from
	if first := c.FindContaining(from); first != nil {
		start = first.offset
	}
	c.tree.AscendRange(pivot(start), pivot(to), func(page *Page) bool {
		pages = append(pages, page)
		return true
	})
	return pages
}

// Pages lists every resident page in offset order.
func (c *PageCache) Pages() []*Page {
	pages := make([]*Page, 0, c.tree.Len())
	c.tree.Ascend(func(page *Page) bool {
		pages = append(pages, page)
		return true
	})
	return pages
}

// shiftAfter moves every page stored after page by delta rows. The relative
// order does not change so the tree stays valid.
func (c *PageCache) shiftAfter(page *Page, delta int) {
	later := []*Page{}
	c.tree.AscendGreaterOrEqual(pivot(page.offset+1), func(p *Page) bool {
		later = append(later, p)
		return true
	})
	for _, p := range later {
		p.offset += delta
	}
}
