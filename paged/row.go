package paged

// Row is an ordered tuple of column values. A row belongs to exactly one page
// and is never modified after it has been read.
type Row []any
