package memsource

import (
	"context"
	"sync"

	"github.com/fulldump/lazyrows/paged"
)

// Numbers serves rows [0], [1], ... [n-1] computed on read.
type Numbers struct {
	mutex   sync.RWMutex
	n       int
	claimed int
}

var _ paged.Source = &Numbers{}

func NewNumbers(n int) *Numbers {
	s := &Numbers{}
	s.SetRowCount(n)
	return s
}

func (s *Numbers) Columns() []string {
	return []string{"Number"}
}

// SetRowCount changes the length of the sequence. The advertised count
// follows it.
func (s *Numbers) SetRowCount(n int) {
	if n < 0 {
		n = 0
	}
	s.mutex.Lock()
	s.n = n
	s.claimed = n
	s.mutex.Unlock()
}

// WithClaimedCount makes the source advertise count instead of its length.
func (s *Numbers) WithClaimedCount(count int) *Numbers {
	s.mutex.Lock()
	s.claimed = count
	s.mutex.Unlock()
	return s
}

func (s *Numbers) EstimateInitialCount(ctx context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.claimed, nil
}

func (s *Numbers) ReadPage(ctx context.Context, offset, limit int) ([]paged.Row, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if offset >= s.n {
		return nil, paged.ErrNoData
	}
	end := min(offset+limit, s.n)

	rows := make([]paged.Row, 0, end-offset)
	for i := offset; i < end; i++ {
		rows = append(rows, paged.Row{i})
	}
	return rows, nil
}
