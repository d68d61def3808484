package paged

import (
	"context"
	"testing"
)

// sliceSource serves rows from a slice and counts backend reads.
type sliceSource struct {
	rows    []Row
	claimed int
	short   int
	reads   int
}

func numbers(values ...int) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = Row{v}
	}
	return rows
}

func sequence(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{i}
	}
	return rows
}

func newSliceSource(rows []Row, claimed int) *sliceSource {
	return &sliceSource{
		rows:    rows,
		claimed: claimed,
	}
}

func (s *sliceSource) EstimateInitialCount(ctx context.Context) (int, error) {
	return s.claimed, nil
}

func (s *sliceSource) ReadPage(ctx context.Context, offset, limit int) ([]Row, error) {
	s.reads++
	if offset >= len(s.rows) {
		return nil, ErrNoData
	}
	end := offset + limit
	if s.short > 0 && end > offset+s.short {
		end = offset + s.short
	}
	if end > len(s.rows) {
		end = len(s.rows)
	}
	rows := make([]Row, end-offset)
	copy(rows, s.rows[offset:end])
	return rows, nil
}

func (s *sliceSource) InsertRow(ctx context.Context, index int, row Row) error {
	s.rows = append(s.rows[:index:index], append([]Row{row}, s.rows[index:]...)...)
	return nil
}

// readOnly hides the Inserter capability of the wrapped source.
type readOnly struct {
	Source
}

func newTestPager(t *testing.T, source Source, pageSize int) *Pager {
	t.Helper()
	p, err := New(context.Background(), source, Options{PageSize: pageSize})
	if err != nil {
		t.Fatalf("new pager: %v", err)
	}
	return p
}

func expectViolation(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		if _, ok := r.(InvariantViolation); !ok {
			t.Fatalf("expected an invariant violation, got %v", r)
		}
	}()
	f()
}

func intKey(row Row) int {
	return row[0].(int)
}

func assertNoOverlap(t *testing.T, p *Pager) {
	t.Helper()
	pages := p.Resident()
	for i := 1; i < len(pages); i++ {
		if pages[i-1].End() > pages[i].Offset() {
			t.Fatalf("%s overlaps %s", pages[i-1], pages[i])
		}
	}
}
