package paged

import (
	"testing"

	"github.com/fulldump/biff"
)

func TestPageCache_StoreKeepsOrder(t *testing.T) {

	c := NewPageCache()
	c.Store(newPage(20, sequence(10)), nil)
	c.Store(newPage(0, sequence(10)), nil)
	c.Store(newPage(40, sequence(5)), nil)

	offsets := []int{}
	for _, page := range c.Pages() {
		offsets = append(offsets, page.Offset())
	}
	biff.AssertEqual(offsets, []int{0, 20, 40})
	biff.AssertEqual(c.Len(), 3)
}

func TestPageCache_StoreWithHint(t *testing.T) {

	c := NewPageCache()
	first := newPage(0, sequence(10))
	c.Store(first, nil)
	second := newPage(10, sequence(10))
	c.Store(second, first)

	biff.AssertEqual(c.FindSuccessorOf(first), second)
	biff.AssertNil(c.FindSuccessorOf(second))
}

func TestPageCache_FindContaining(t *testing.T) {

	c := NewPageCache()
	page := newPage(10, sequence(5))
	c.Store(page, nil)

	biff.AssertNil(c.FindContaining(9))
	biff.AssertEqual(c.FindContaining(10), page)
	biff.AssertEqual(c.FindContaining(14), page)
	biff.AssertNil(c.FindContaining(15))
}

func TestPageCache_SuccessorAcrossGap(t *testing.T) {

	c := NewPageCache()
	first := newPage(0, sequence(10))
	c.Store(first, nil)
	c.Store(newPage(20, sequence(10)), nil)

	biff.AssertNil(c.FindSuccessorOf(first))
}

func TestPageCache_Overlapping(t *testing.T) {

	c := NewPageCache()
	c.Store(newPage(0, sequence(10)), nil)
	c.Store(newPage(10, sequence(10)), nil)
	c.Store(newPage(30, sequence(10)), nil)

	pages := c.Overlapping(15, 31)
	biff.AssertEqual(len(pages), 2)
	biff.AssertEqual(pages[0].Offset(), 10)
	biff.AssertEqual(pages[1].Offset(), 30)
}

func TestPageCache_Violations(t *testing.T) {

	biff.Alternative("Cache with one page", func(a *biff.A) {

		c := NewPageCache()
		resident := newPage(10, sequence(10))
		c.Store(resident, nil)

		a.Alternative("Overlap from before", func(a *biff.A) {
			expectViolation(t, func() {
				c.Store(newPage(5, sequence(10)), nil)
			})
		})

		a.Alternative("Overlap from after", func(a *biff.A) {
			expectViolation(t, func() {
				c.Store(newPage(15, sequence(2)), nil)
			})
		})

		a.Alternative("Same offset", func(a *biff.A) {
			expectViolation(t, func() {
				c.Store(newPage(10, sequence(1)), nil)
			})
		})

		a.Alternative("Empty page", func(a *biff.A) {
			expectViolation(t, func() {
				c.Store(newPage(50, nil), nil)
			})
		})

		a.Alternative("Hint not resident", func(a *biff.A) {
			expectViolation(t, func() {
				c.Store(newPage(30, sequence(1)), newPage(20, sequence(1)))
			})
		})

		a.Alternative("Hint not adjacent", func(a *biff.A) {
			c.Store(newPage(40, sequence(1)), nil)
			expectViolation(t, func() {
				c.Store(newPage(50, sequence(1)), resident)
			})
		})

		a.Alternative("Hint after page", func(a *biff.A) {
			expectViolation(t, func() {
				c.Store(newPage(0, sequence(1)), resident)
			})
		})
	})
}
