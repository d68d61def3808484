package paged

import (
	"context"
	"math"
	"testing"

	"github.com/fulldump/biff"
)

func TestGetPageForPosition_ExactEstimate(t *testing.T) {

	ctx := context.Background()
	source := newSliceSource(sequence(100), 100)
	p := newTestPager(t, source, 10)

	page, err := p.GetPageForPosition(ctx, 0.5)

	biff.AssertNil(err)
	biff.AssertEqual(page.Offset(), 50)
	biff.AssertEqual(page.Len(), 10)
	biff.AssertEqual(source.reads, 1)
}

func TestGetPageForPosition_End(t *testing.T) {

	ctx := context.Background()
	p := newTestPager(t, newSliceSource(sequence(100), 100), 10)

	page, err := p.GetPageForPosition(ctx, 1)

	biff.AssertNil(err)
	biff.AssertEqual(page.Offset(), 90)
	biff.AssertEqual(p.Size(), Size{Estimated: 100, Known: 100})
}

func TestGetPageForPosition_Overestimated(t *testing.T) {

	ctx := context.Background()
	p := newTestPager(t, newSliceSource(sequence(16), 30), 10)

	changes := []SizeChange{}
	p.OnSizeChanged(func(change SizeChange) {
		changes = append(changes, change)
	})

	page, err := p.GetPageForPosition(ctx, 0.8)

	biff.AssertNil(err)
	biff.AssertEqual(page.Offset(), 10)
	biff.AssertEqual(page.Len(), 6)
	biff.AssertEqual(p.Size(), Size{Estimated: 16, Known: 16})
	biff.AssertTrue(page.Contains(int(math.Floor(0.8 * 16))))
	biff.AssertTrue(len(changes) > 0)
	biff.AssertEqual(changes[len(changes)-1].New.Estimated, 16)
}

func TestGetPageForPosition_Underestimated(t *testing.T) {

	ctx := context.Background()
	p := newTestPager(t, newSliceSource(sequence(100), 30), 10)

	page, err := p.GetPageForPosition(ctx, 0.8)

	biff.AssertNil(err)
	biff.AssertEqual(page.Offset(), 80)
	biff.AssertEqual(p.Size(), Size{Estimated: 100, Known: 100})
	assertNoOverlap(t, p)
}

func TestGetPageForPosition_Cached(t *testing.T) {

	ctx := context.Background()
	source := newSliceSource(sequence(100), 100)
	p := newTestPager(t, source, 10)

	first, _ := p.GetPageForPosition(ctx, 0.42)
	reads := source.reads

	second, err := p.GetPageForPosition(ctx, 0.42)

	biff.AssertNil(err)
	biff.AssertEqual(first, second)
	biff.AssertEqual(source.reads, reads)
}

func TestGetPageForPosition_Empty(t *testing.T) {

	biff.Alternative("Empty source", func(a *biff.A) {

		ctx := context.Background()

		a.Alternative("Claims empty", func(a *biff.A) {
			p := newTestPager(t, newSliceSource(nil, 0), 10)
			page, err := p.GetPageForPosition(ctx, 0.5)
			biff.AssertNil(err)
			biff.AssertNil(page)
		})

		a.Alternative("Claims rows", func(a *biff.A) {
			p := newTestPager(t, newSliceSource(nil, 10), 10)
			page, err := p.GetPageForPosition(ctx, 0.5)
			biff.AssertNil(err)
			biff.AssertNil(page)
			biff.AssertEqual(p.EstimateRowCount(), 0)
		})
	})
}

func TestGetPageForPosition_ShortReadsNeverOverlap(t *testing.T) {

	ctx := context.Background()
	source := newSliceSource(sequence(100), 100)
	source.short = 4
	p := newTestPager(t, source, 10)

	for _, position := range []float64{0.5, 0.55, 0.52, 0.1, 0.98, 0.3, 0.31, 0.49} {
		page, err := p.GetPageForPosition(ctx, position)
		biff.AssertNil(err)
		target := targetRow(position, p.EstimateRowCount())
		if !page.Contains(target) {
			t.Fatalf("%s does not contain row %d", page, target)
		}
		assertNoOverlap(t, p)
	}
}

func TestGetPageForPosition_OutOfRange(t *testing.T) {

	p := newTestPager(t, newSliceSource(sequence(10), 10), 10)

	for _, position := range []float64{-0.1, 1.5, math.NaN()} {
		expectViolation(t, func() {
			p.GetPageForPosition(context.Background(), position)
		})
	}
}

func TestGetPageForPosition_Monotonic(t *testing.T) {

	ctx := context.Background()
	p := newTestPager(t, newSliceSource(sequence(16), 30), 4)

	// settle the estimate first
	_, err := p.GetPageForPosition(ctx, 1)
	biff.AssertNil(err)
	biff.AssertEqual(p.EstimateRowCount(), 16)

	last := -1
	for i := 0; i <= 20; i++ {
		page, err := p.GetPageForPosition(ctx, float64(i)/20)
		biff.AssertNil(err)
		biff.AssertTrue(page.Offset() >= last)
		last = page.Offset()
	}
	biff.AssertEqual(last, 12)
}
