package paged

import (
	"github.com/google/uuid"
)

// RowInserted tells where a new row landed: its page and index within it.
type RowInserted struct {
	Page  *Page
	Index int
}

type listener[T any] struct {
	id string
	f  func(T)
}

type listeners[T any] struct {
	entries []listener[T]
}

func (l *listeners[T]) add(f func(T)) (cancel func()) {
	id := uuid.NewString()
	l.entries = append(l.entries, listener[T]{id: id, f: f})
	return func() {
		l.remove(id)
	}
}

func (l *listeners[T]) remove(id string) {
	for i, entry := range l.entries {
		if entry.id == id {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			return
		}
	}
}

func (l *listeners[T]) emit(v T) {
	entries := l.entries // listeners may cancel while being called
	for _, entry := range entries {
		entry.f(v)
	}
}

func (l *listeners[T]) len() int {
	return len(l.entries)
}

// OnSizeChanged registers f to be called whenever the estimated row count
// moves. The returned function deregisters it.
func (p *Pager) OnSizeChanged(f func(SizeChange)) (cancel func()) {
	return p.sizeListeners.add(f)
}

// OnRowInserted registers f to be called after InsertRow stored a row.
func (p *Pager) OnRowInserted(f func(RowInserted)) (cancel func()) {
	return p.insertListeners.add(f)
}
