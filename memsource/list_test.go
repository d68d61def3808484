package memsource

import (
	"context"
	"testing"

	"github.com/fulldump/biff"

	"github.com/fulldump/lazyrows/paged"
)

func TestList_ReadPage(t *testing.T) {

	ctx := context.Background()
	l := New(Values(1, 2, 3, 4, 5)...)

	biff.Alternative("List of five", func(a *biff.A) {

		a.Alternative("Full page", func(a *biff.A) {
			rows, err := l.ReadPage(ctx, 0, 2)
			biff.AssertNil(err)
			biff.AssertEqual(rows, Values(1, 2))
		})

		a.Alternative("Tail", func(a *biff.A) {
			rows, err := l.ReadPage(ctx, 3, 10)
			biff.AssertNil(err)
			biff.AssertEqual(rows, Values(4, 5))
		})

		a.Alternative("Past the end", func(a *biff.A) {
			rows, err := l.ReadPage(ctx, 5, 10)
			biff.AssertNil(rows)
			biff.AssertEqual(err, paged.ErrNoData)
		})
	})
}

func TestList_ClaimedCount(t *testing.T) {

	l := New(Values(1, 2, 3)...).WithClaimedCount(30)

	n, err := l.EstimateInitialCount(context.Background())

	biff.AssertNil(err)
	biff.AssertEqual(n, 30)
	biff.AssertEqual(l.Len(), 3)
}

func TestList_InsertRow(t *testing.T) {

	ctx := context.Background()
	l := New(Values(1, 3)...)

	biff.AssertNil(l.InsertRow(ctx, 1, paged.Row{2}))
	biff.AssertNil(l.InsertRow(ctx, 3, paged.Row{4}))
	biff.AssertNotNil(l.InsertRow(ctx, 9, paged.Row{5}))

	rows, _ := l.ReadPage(ctx, 0, 10)
	biff.AssertEqual(rows, Values(1, 2, 3, 4))
}

func TestList_ThroughPager(t *testing.T) {

	ctx := context.Background()
	l := New(Values(0, 10, 20, 30, 40, 50)...).WithClaimedCount(3)

	p, err := paged.New(ctx, l, paged.Options{PageSize: 2})
	biff.AssertNil(err)

	page, err := p.GetPageForPosition(ctx, 0.9)
	biff.AssertNil(err)
	biff.AssertEqual(page.Offset(), 4)
	biff.AssertEqual(p.Size(), paged.Size{Estimated: 6, Known: 6})

	page, index, err := p.InsertRow(ctx, paged.Row{45}, func(row paged.Row) int {
		return row[0].(int) - 45
	})
	biff.AssertNil(err)
	biff.AssertEqual(page.Offset(), 4)
	biff.AssertEqual(index, 1)
	biff.AssertEqual(l.Len(), 7)
}
