package paged

import (
	"context"
	"testing"

	"github.com/fulldump/biff"
)

func TestCursor_Walk(t *testing.T) {

	ctx := context.Background()
	p := newTestPager(t, newSliceSource(sequence(25), 25), 10)

	values := []int{}
	c, ok, err := p.Begin(ctx)
	for ok && err == nil {
		biff.AssertEqual(c.Absolute(), intKey(c.Row()))
		values = append(values, intKey(c.Row()))
		c, ok, err = p.Advance(ctx, c)
	}

	biff.AssertNil(err)
	biff.AssertEqual(len(values), 25)
	biff.AssertEqual(values[24], 24)
}

func TestCursor_Seek(t *testing.T) {

	ctx := context.Background()
	p := newTestPager(t, newSliceSource(sequence(25), 25), 10)

	c, ok, err := p.Seek(ctx, 0.5)

	biff.AssertNil(err)
	biff.AssertTrue(ok)
	biff.AssertEqual(c.Page.Offset(), 10)
	biff.AssertEqual(c.Absolute(), 12)

	next, ok, _ := p.Advance(ctx, c)
	biff.AssertTrue(ok)
	biff.AssertEqual(next.Absolute(), 13)
	biff.AssertEqual(c.Absolute(), 12)
}

func TestCursor_EmptySource(t *testing.T) {

	p := newTestPager(t, newSliceSource(nil, 0), 10)

	_, ok, err := p.Begin(context.Background())

	biff.AssertNil(err)
	biff.AssertFalse(ok)
}
