package paged

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options configures a Pager.
type Options struct {
	// PageSize is the number of rows requested per backend read.
	PageSize int

	// Grow projects the estimate when reads go past it. GrowToKnown if nil.
	Grow GrowthFunc

	// Logger receives debug traces of page stores and estimate corrections.
	Logger logrus.FieldLogger
}

// Pager gives windowed, lazy access to an ordered Source. It owns the page
// cache and the size estimator; both live exactly as long as the Pager.
//
// A Pager is not safe for concurrent use. Callers sharing one must funnel
// their calls through a single goroutine or a lock.
type Pager struct {
	source   Source
	pageSize int
	cache    *PageCache
	size     *SizeEstimator
	log      logrus.FieldLogger

	sizeListeners   listeners[SizeChange]
	insertListeners listeners[RowInserted]
}

// New builds a Pager over source, asking it for the initial estimate.
func New(ctx context.Context, source Source, options Options) (*Pager, error) {

	if options.PageSize <= 0 {
		return nil, errors.Errorf("page size must be positive, got %d", options.PageSize)
	}

	initial, err := source.EstimateInitialCount(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "estimate initial row count")
	}
	if initial < 0 {
		return nil, errors.Errorf("negative initial row count %d", initial)
	}

	log := options.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	p := &Pager{
		source:   source,
		pageSize: options.PageSize,
		cache:    NewPageCache(),
		size:     NewSizeEstimator(initial, options.Grow),
		log:      log,
	}
	p.size.onChange = p.sizeChanged

	return p, nil
}

func (p *Pager) sizeChanged(change SizeChange) {
	p.log.WithFields(logrus.Fields{
		"old":   change.Old.Estimated,
		"new":   change.New.Estimated,
		"known": change.New.Known,
	}).Debug("estimate corrected")
	p.sizeListeners.emit(change)
}

// PageSize returns the number of rows requested per read.
func (p *Pager) PageSize() int {
	return p.pageSize
}

// EstimateRowCount returns the current best guess of the total row count.
func (p *Pager) EstimateRowCount() int {
	return p.size.Estimated()
}

// KnownRowCount returns the number of rows confirmed by reads.
func (p *Pager) KnownRowCount() int {
	return p.size.Known()
}

func (p *Pager) Size() Size {
	return p.size.Size()
}

// Resident lists the pages currently held, in offset order.
func (p *Pager) Resident() []*Page {
	return p.cache.Pages()
}

// PageAt returns the resident page starting at offset, or nil.
func (p *Pager) PageAt(offset int) *Page {
	return p.cache.StartingAt(offset)
}

// FirstPage returns the page at offset 0, reading it if needed. It returns a
// nil page when the source is empty.
func (p *Pager) FirstPage(ctx context.Context) (*Page, error) {
	return p.NextPage(ctx, nil)
}

// NextPage returns the page right after prev, reading it if needed. prev must
// be resident; nil means the first page. A nil page means end of data.
func (p *Pager) NextPage(ctx context.Context, prev *Page) (*Page, error) {

	expected := 0
	if prev != nil {
		if !p.cache.Resident(prev) {
			violation("next page of %s which is not resident", prev)
		}
		expected = prev.End()
		if next := p.cache.FindSuccessorOf(prev); next != nil {
			return next, nil
		}
	} else if first := p.cache.StartingAt(0); first != nil {
		return first, nil
	}

	page, err := p.read(ctx, expected, prev)
	if err != nil {
		return nil, err
	}
	if page == nil {
		p.size.MarkEnd(expected)
		return nil, nil
	}

	return page, nil
}

// read fetches the page at offset and stores it. after is a hint: the
// resident page preceding offset, if the caller knows it. The request is
// clipped so it never overlaps the next resident page. A nil page means no
// data at offset.
func (p *Pager) read(ctx context.Context, offset int, after *Page) (*Page, error) {

	limit := p.pageSize
	if next := p.cache.firstFrom(offset); next != nil {
		if next.offset == offset {
			return next, nil
		}
		if gap := next.offset - offset; gap < limit {
			limit = gap
		}
	}

	rows, err := p.source.ReadPage(ctx, offset, limit)
	if errors.Is(err, ErrNoData) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read page at offset %d limit %d", offset, limit)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if len(rows) > limit {
		violation("source returned %d rows at offset %d for limit %d", len(rows), offset, limit)
	}

	if after != nil && after.offset >= offset {
		after = nil
	}

	page := newPage(offset, rows)
	p.cache.Store(page, after)
	p.log.WithFields(logrus.Fields{
		"offset":   page.offset,
		"rows":     page.Len(),
		"resident": p.cache.Len(),
	}).Debug("store page")

	p.size.Observe(page.End())

	return page, nil
}
