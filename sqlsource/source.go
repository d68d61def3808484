// Package sqlsource pages through the result of an SQL query with
// LIMIT/OFFSET.
package sqlsource

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"

	"github.com/fulldump/lazyrows/paged"
)

// Source reads windows of query. The query must be ordered and must not
// carry its own LIMIT or OFFSET clause.
type Source struct {
	db    *sql.DB
	query string
	args  []any
	count CountStrategy

	columnsOnce sync.Once
	columns     []string
	columnsErr  error
}

var _ paged.Source = &Source{}

// New builds a Source. count decides the initial estimate; ExactCount if nil.
func New(db *sql.DB, count CountStrategy, query string, args ...any) *Source {
	if count == nil {
		count = ExactCount{}
	}
	return &Source{
		db:    db,
		query: query,
		args:  args,
		count: count,
	}
}

func (s *Source) EstimateInitialCount(ctx context.Context) (int, error) {
	n, err := s.count.EstimateCount(ctx, s)
	if err != nil {
		return 0, errors.Wrap(err, "estimate count")
	}
	return n, nil
}

func (s *Source) ReadPage(ctx context.Context, offset, limit int) ([]paged.Row, error) {

	args := append(append([]any{}, s.args...), limit, offset)
	rows, err := s.db.QueryContext(ctx, s.query+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, errors.Wrap(err, "query page")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(err, "read columns")
	}

	result := []paged.Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, errors.Wrapf(err, "scan row %d", offset+len(result))
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, paged.Row(values))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate rows")
	}

	if len(result) == 0 {
		return nil, paged.ErrNoData
	}
	return result, nil
}

// Columns returns the names of the result columns.
func (s *Source) Columns(ctx context.Context) ([]string, error) {
	s.columnsOnce.Do(func() {
		rows, err := s.db.QueryContext(ctx, s.query+" LIMIT 0", s.args...)
		if err != nil {
			s.columnsErr = errors.Wrap(err, "query columns")
			return
		}
		defer rows.Close()
		s.columns, s.columnsErr = rows.Columns()
	})
	return s.columns, s.columnsErr
}

// ColumnIndex returns the position of the named result column.
func (s *Source) ColumnIndex(ctx context.Context, name string) (int, error) {
	columns, err := s.Columns(ctx)
	if err != nil {
		return 0, err
	}
	for i, column := range columns {
		if column == name {
			return i, nil
		}
	}
	return 0, errors.Errorf("column %q not found in query results", name)
}
