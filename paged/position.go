package paged

import (
	"context"
	"math"
)

// Every pass either returns or works on a strictly more accurate estimate;
// bisecting an int needs at most 64 of them.
const maxLookupPasses = 256

func targetRow(position float64, estimated int) int {
	target := int(math.Floor(position * float64(estimated)))
	if target > estimated-1 {
		target = estimated - 1
	}
	return target
}

// GetPageForPosition returns the page holding the row at about
// position*EstimateRowCount(), position being a scrollbar value in [0,1].
// Reads that falsify the estimate correct it before the page is returned, so
// the page always contains the target row under the final estimate. A nil
// page means the source is empty.
func (p *Pager) GetPageForPosition(ctx context.Context, position float64) (*Page, error) {

	if math.IsNaN(position) || position < 0 || position > 1 {
		violation("position %v outside [0,1]", position)
	}

	for pass := 0; pass < maxLookupPasses; pass++ {

		estimated := p.size.Estimated()
		if estimated == 0 {
			return nil, nil
		}
		target := targetRow(position, estimated)

		if page := p.cache.FindContaining(target); page != nil {
			return page, nil
		}

		page, err := p.locate(ctx, target)
		if err != nil {
			return nil, err
		}
		if page == nil {
			continue // the estimate was too high and has been corrected
		}

		// The estimate is least reliable near its own ceiling
		if target >= estimated-p.pageSize {
			if err := p.pinEnd(ctx, page); err != nil {
				return nil, err
			}
		}

		if p.size.Estimated() == estimated {
			return page, nil
		}
		if page.Contains(targetRow(position, p.size.Estimated())) {
			return page, nil
		}
	}

	violation("position %v did not converge after %d passes", position, maxLookupPasses)
	return nil, nil
}

// locate reads forward from the page aligned below target until it reaches
// the page holding target. It returns nil, after correcting the estimate,
// when the data ends before target.
func (p *Pager) locate(ctx context.Context, target int) (*Page, error) {

	start := target - target%p.pageSize

	page := p.cache.FindContaining(start)
	if page == nil {
		var err error
		page, err = p.read(ctx, start, p.cache.Before(start))
		if err != nil {
			return nil, err
		}
		if page == nil {
			p.logShrink(start)
			p.size.Shrink(start)
			return nil, nil
		}
	}

	for !page.Contains(target) {
		next, err := p.NextPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, nil
		}
		page = next
	}

	return page, nil
}

// pinEnd keeps reading after page until the backend reports no more data,
// which fixes the exact row count.
func (p *Pager) pinEnd(ctx context.Context, page *Page) error {
	for {
		next, err := p.NextPage(ctx, page)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		page = next
	}
}

func (p *Pager) logShrink(offset int) {
	p.log.WithField("offset", offset).
		WithField("known", p.size.Known()).
		WithField("estimated", p.size.Estimated()).
		Debug("no data at offset, shrinking estimate")
}
