package history

import (
	"github.com/gammazero/deque"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// DefaultDepth is the undo depth used when none is configured.
const DefaultDepth = 50

// Manager is a linear undo/redo history over buffer snapshots.
//
// The zero value is not usable; create one with New.
type Manager struct {
	undo    *stack
	redo    *stack
	evicted int
}

// stack is a LIFO of snapshots. With a positive limit it holds at most limit
// entries and drops the oldest on overflow.
type stack struct {
	q     deque.Deque[*imaging.Buffer]
	limit int
}

func newStack(limit int) *stack {
	if limit < 0 {
		limit = 0
	}
	return &stack{limit: limit}
}

// push adds b on top and reports whether the oldest entry was evicted.
func (s *stack) push(b *imaging.Buffer) (evicted bool) {
	if s.limit > 0 && s.q.Len() == s.limit {
		s.q.PopFront()
		evicted = true
	}
	s.q.PushBack(b)
	return evicted
}

// pop removes and returns the newest entry, or nil when empty.
func (s *stack) pop() *imaging.Buffer {
	if s.q.Len() == 0 {
		return nil
	}
	return s.q.PopBack()
}

func (s *stack) len() int {
	return s.q.Len()
}

func (s *stack) clear() {
	s.q.Clear()
}

// New creates an empty history that keeps at most depth undo snapshots.
// A depth of zero or less means unbounded.
func New(depth int) *Manager {
	return &Manager{
		undo: newStack(depth),
		redo: newStack(depth),
	}
}

// Record stores a snapshot of b as the state before a change and discards
// every redo entry. Call it only for changes that should be undoable.
func (m *Manager) Record(b *imaging.Buffer) {
	if b == nil {
		return
	}
	if m.undo.push(b.Clone()) {
		m.evicted++
	}
	m.redo.clear()
}

// Undo steps back one state. current is the buffer being replaced; a snapshot
// of it is kept for Redo. It returns the previous state and true, or nil and
// false when there is nothing to undo, in which case no stack changes.
func (m *Manager) Undo(current *imaging.Buffer) (*imaging.Buffer, bool) {
	prev := m.undo.pop()
	if prev == nil {
		return nil, false
	}
	if current != nil {
		m.redo.push(current.Clone())
	}
	return prev, true
}

// Redo steps forward one state. current is the buffer being replaced; a
// snapshot of it goes back onto the undo stack so the next Undo returns to
// it. It returns the next state and true, or nil and false when there is
// nothing to redo.
func (m *Manager) Redo(current *imaging.Buffer) (*imaging.Buffer, bool) {
	next := m.redo.pop()
	if next == nil {
		return nil, false
	}
	if current != nil {
		if m.undo.push(current.Clone()) {
			m.evicted++
		}
	}
	return next, true
}

// Clear empties both stacks. It is called when a new image is loaded.
func (m *Manager) Clear() {
	m.undo.clear()
	m.redo.clear()
	m.evicted = 0
}

// CanUndo reports whether Undo would restore a state.
func (m *Manager) CanUndo() bool {
	return m.undo.len() > 0
}

// CanRedo reports whether Redo would restore a state.
func (m *Manager) CanRedo() bool {
	return m.redo.len() > 0
}

// UndoDepth returns the number of undo snapshots.
func (m *Manager) UndoDepth() int {
	return m.undo.len()
}

// RedoDepth returns the number of redo snapshots.
func (m *Manager) RedoDepth() int {
	return m.redo.len()
}

// Limit returns the maximum undo depth, 0 meaning unbounded.
func (m *Manager) Limit() int {
	return m.undo.limit
}

// Evicted returns how many snapshots were dropped because the undo stack was
// full since the last Clear.
func (m *Manager) Evicted() int {
	return m.evicted
}
