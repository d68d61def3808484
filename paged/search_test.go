package paged

import (
	"context"
	"testing"

	"github.com/fulldump/biff"
)

func evens(n int) []Row {
	values := make([]int, n)
	for i := range values {
		values[i] = i * 2
	}
	return numbers(values...)
}

func loadAll(t *testing.T, p *Pager) {
	t.Helper()
	page, err := p.FirstPage(context.Background())
	for page != nil && err == nil {
		page, err = p.NextPage(context.Background(), page)
	}
	if err != nil {
		t.Fatalf("load all: %v", err)
	}
}

func TestFindRow(t *testing.T) {

	source := newSliceSource(evens(50), 50)
	p := newTestPager(t, source, 10)
	loadAll(t, p)
	reads := source.reads

	biff.Alternative("Fully loaded pager", func(a *biff.A) {

		a.Alternative("Match", func(a *biff.A) {
			row, page, index := FindRowByKey(p, intKey, 42)
			biff.AssertEqual(row, Row{42})
			biff.AssertEqual(index, 21)
			biff.AssertEqual(page.Offset(), 20)
		})

		a.Alternative("Insertion point", func(a *biff.A) {
			row, page, index := FindRowByKey(p, intKey, 43)
			biff.AssertNil(row)
			biff.AssertEqual(index, 22)
			biff.AssertEqual(page.Offset(), 20)
		})

		a.Alternative("Before everything", func(a *biff.A) {
			row, page, index := FindRowByKey(p, intKey, -1)
			biff.AssertNil(row)
			biff.AssertEqual(index, 0)
			biff.AssertEqual(page.Offset(), 0)
		})

		a.Alternative("After everything", func(a *biff.A) {
			row, page, index := FindRowByKey(p, intKey, 1000)
			biff.AssertNil(row)
			biff.AssertEqual(index, 50)
			biff.AssertEqual(page.Offset(), 40)
		})
	})

	biff.AssertEqual(source.reads, reads)
}

func TestFindRow_Empty(t *testing.T) {

	p := newTestPager(t, newSliceSource(nil, 0), 10)

	row, page, index := FindRowByKey(p, intKey, 3)

	biff.AssertNil(row)
	biff.AssertNil(page)
	biff.AssertEqual(index, 0)
}

func TestFindRow_NotResident(t *testing.T) {

	ctx := context.Background()
	p := newTestPager(t, newSliceSource(sequence(100), 100), 10)
	p.FirstPage(ctx)
	p.GetPageForPosition(ctx, 0.95)

	expectViolation(t, func() {
		FindRowByKey(p, intKey, 50)
	})
}

func TestFindRow_OddValues(t *testing.T) {

	p := newTestPager(t, newSliceSource(numbers(1, 3, 5, 7, 9), 5), 2)
	loadAll(t, p)

	for i, value := range []int{1, 3, 5, 7, 9} {
		row, _, index := p.FindRow(byValue(value))
		biff.AssertEqual(row, Row{value})
		biff.AssertEqual(index, i)
	}

	for i, value := range []int{0, 2, 4, 6, 8, 10} {
		row, _, index := p.FindRow(byValue(value))
		biff.AssertNil(row)
		biff.AssertEqual(index, i)
	}
}

func TestFindRow_SingleRowPages(t *testing.T) {

	p := newTestPager(t, newSliceSource(evens(200), 200), 1)
	loadAll(t, p)
	biff.AssertEqual(len(p.Resident()), 200)

	row, page, index := p.FindRow(byValue(250))
	biff.AssertEqual(row, Row{250})
	biff.AssertEqual(page.Offset(), 125)
	biff.AssertEqual(index, 125)

	row, page, index = p.FindRow(byValue(251))
	biff.AssertNil(row)
	biff.AssertEqual(page.Offset(), 126)
	biff.AssertEqual(index, 126)
}
