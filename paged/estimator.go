package paged

// Size is a snapshot of what is known about the length of a source.
type Size struct {
	// Estimated is the current best guess of the total row count.
	Estimated int `json:"estimated"`
	// Known is the number of rows confirmed by actual reads.
	Known int `json:"known"`
}

// SizeChange is reported every time the estimate moves.
type SizeChange struct {
	Old Size
	New Size
}

// Delta is the number of virtual rows that appeared (positive) or vanished
// (negative).
func (c SizeChange) Delta() int {
	return c.New.Estimated - c.Old.Estimated
}

// GrowthFunc projects a new estimate once reads have confirmed known rows.
// Results below known are raised to known.
type GrowthFunc func(estimated, known int) int

// GrowToKnown keeps the estimate unless reads went past it.
func GrowToKnown(estimated, known int) int {
	if known > estimated {
		return known
	}
	return estimated
}

// GrowByPage expects at least one more page whenever reads reach the ceiling.
func GrowByPage(pageSize int) GrowthFunc {
	return func(estimated, known int) int {
		if known >= estimated {
			return known + pageSize
		}
		return estimated
	}
}

// SizeEstimator holds the estimated and known row counts of a source.
// Known never decreases and the estimate never drops below it.
type SizeEstimator struct {
	size     Size
	grow     GrowthFunc
	onChange func(SizeChange)
}

func NewSizeEstimator(initial int, grow GrowthFunc) *SizeEstimator {
	if initial < 0 {
		initial = 0
	}
	if grow == nil {
		grow = GrowToKnown
	}
	return &SizeEstimator{
		size: Size{Estimated: initial},
		grow: grow,
	}
}

func (e *SizeEstimator) Size() Size {
	return e.size
}

func (e *SizeEstimator) Estimated() int {
	return e.size.Estimated
}

func (e *SizeEstimator) Known() int {
	return e.size.Known
}

// Update replaces both counts and reports whether the estimate changed.
func (e *SizeEstimator) Update(estimated, known int) bool {

	if estimated < known {
		violation("estimate %d below known row count %d", estimated, known)
	}
	if known < e.size.Known {
		violation("known row count decreased from %d to %d", e.size.Known, known)
	}

	old := e.size
	e.size = Size{Estimated: estimated, Known: known}

	if old.Estimated == estimated {
		return false
	}
	if e.onChange != nil {
		e.onChange(SizeChange{Old: old, New: e.size})
	}
	return true
}

// Observe records a successful read whose last row ends at end.
func (e *SizeEstimator) Observe(end int) bool {
	known := e.size.Known
	if end > known {
		known = end
	}
	estimated := e.grow(e.size.Estimated, known)
	if estimated < known {
		estimated = known
	}
	return e.Update(estimated, known)
}

// Shrink records that nothing exists at or after offset. The estimate is
// bisected between the known count and the previous estimate, never above
// offset.
func (e *SizeEstimator) Shrink(offset int) bool {

	known := e.size.Known
	if offset < known {
		violation("no data at offset %d below known row count %d", offset, known)
	}
	if offset == known {
		return e.MarkEnd(known)
	}

	estimated := known + (e.size.Estimated-known)/2
	if estimated > offset {
		estimated = offset
	}
	return e.Update(estimated, known)
}

// MarkEnd records that the source holds exactly count rows.
func (e *SizeEstimator) MarkEnd(count int) bool {
	if count != e.size.Known {
		violation("end of data at %d does not match known row count %d", count, e.size.Known)
	}
	return e.Update(count, count)
}

// Appended records n rows added after the end of the source. They are not
// confirmed by a read, so only the estimate moves.
func (e *SizeEstimator) Appended(n int) bool {
	if n < 0 {
		violation("negative append of %d rows", n)
	}
	return e.Update(e.size.Estimated+n, e.size.Known)
}

// inserted accounts for one row added by the owning source. Insertions are
// announced through their own notification, so no size change is emitted.
func (e *SizeEstimator) inserted() {
	e.size.Known++
	e.size.Estimated++
}
