package sqlsource

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/fulldump/lazyrows/paged"
)

// CountStrategy computes the initial row count estimate of a Source.
type CountStrategy interface {
	EstimateCount(ctx context.Context, s *Source) (int, error)
}

// ExactCount runs SELECT COUNT(*) over the whole query.
type ExactCount struct{}

func (ExactCount) EstimateCount(ctx context.Context, s *Source) (int, error) {
	n := 0
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ("+s.query+")", s.args...).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(err, "count rows")
	}
	return n, nil
}

// Fixed reports a constant estimate without touching the database.
type Fixed int

func (f Fixed) EstimateCount(ctx context.Context, s *Source) (int, error) {
	return int(f), nil
}

// RatioProjection estimates the row count from the number of values of the
// root column, usually the primary sort key. The first SampleSize rows give
// the average number of rows per root value, which is multiplied by the
// result of RootCountQuery. The projection is often wrong in both
// directions.
type RatioProjection struct {
	RootColumn     string
	RootCountQuery string
	RootCountArgs  []any
	SampleSize     int
}

func (r RatioProjection) EstimateCount(ctx context.Context, s *Source) (int, error) {

	root, err := s.ColumnIndex(ctx, r.RootColumn)
	if err != nil {
		return 0, err
	}

	rootCount := 0
	err = s.db.QueryRowContext(ctx, r.RootCountQuery, r.RootCountArgs...).Scan(&rootCount)
	if err != nil {
		return 0, errors.Wrap(err, "count root values")
	}

	sampleSize := r.SampleSize
	if sampleSize <= 0 {
		sampleSize = 100
	}
	sample, err := s.ReadPage(ctx, 0, sampleSize)
	if errors.Is(err, paged.ErrNoData) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	runs := 0
	var last string
	for i, row := range sample {
		value := fmt.Sprint(row[root])
		if i == 0 || value != last {
			runs++
			last = value
		}
	}

	return len(sample) * rootCount / runs, nil
}
