// Package memsource holds paged sources backed by process memory.
package memsource

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/fulldump/lazyrows/paged"
)

// List is a mutable, sorted, in-memory row list.
type List struct {
	mutex   sync.RWMutex
	rows    []paged.Row
	claimed int // negative: report the exact length
}

var _ paged.Source = &List{}
var _ paged.Inserter = &List{}

func New(rows ...paged.Row) *List {
	return &List{
		rows:    rows,
		claimed: -1,
	}
}

// WithClaimedCount makes the list report count as its initial estimate
// instead of its real length.
func (l *List) WithClaimedCount(count int) *List {
	l.mutex.Lock()
	l.claimed = count
	l.mutex.Unlock()
	return l
}

func (l *List) EstimateInitialCount(ctx context.Context) (int, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if l.claimed >= 0 {
		return l.claimed, nil
	}
	return len(l.rows), nil
}

func (l *List) ReadPage(ctx context.Context, offset, limit int) ([]paged.Row, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if offset < 0 || offset >= len(l.rows) {
		return nil, paged.ErrNoData
	}
	end := min(offset+limit, len(l.rows))

	rows := make([]paged.Row, end-offset)
	copy(rows, l.rows[offset:end])
	return rows, nil
}

func (l *List) InsertRow(ctx context.Context, index int, row paged.Row) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if index < 0 || index > len(l.rows) {
		return errors.Errorf("insert index %d out of range [0,%d]", index, len(l.rows))
	}
	l.rows = append(l.rows, nil)
	copy(l.rows[index+1:], l.rows[index:])
	l.rows[index] = row
	return nil
}

// Len returns the real number of rows.
func (l *List) Len() int {
	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return len(l.rows)
}

// Values builds single column rows.
func Values[T any](values ...T) []paged.Row {
	rows := make([]paged.Row, len(values))
	for i, v := range values {
		rows[i] = paged.Row{v}
	}
	return rows
}
