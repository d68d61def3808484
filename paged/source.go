package paged

import "context"

// Source is the backend a Pager reads from. Page reads may block on I/O.
type Source interface {
	// EstimateInitialCount returns a fast, possibly approximate, row count.
	EstimateInitialCount(ctx context.Context) (int, error)

	// ReadPage returns up to limit rows starting at offset. Zero rows or
	// ErrNoData mean nothing exists at or after offset. Fewer rows than limit
	// do not imply the end of the data.
	ReadPage(ctx context.Context, offset, limit int) ([]Row, error)
}

// Inserter is implemented by sources that accept new rows at an absolute
// index.
type Inserter interface {
	InsertRow(ctx context.Context, index int, row Row) error
}
