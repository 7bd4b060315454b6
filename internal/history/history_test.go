package history

import (
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// snapshot returns a 1x1 gray buffer holding v, so snapshots are easy to tell apart.
func snapshot(t *testing.T, v uint8) *imaging.Buffer {
	t.Helper()
	b, err := imaging.NewBuffer(1, 1, 1)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	b.Pix[0] = v
	return b
}

func value(b *imaging.Buffer) uint8 {
	return b.Pix[0]
}

func TestManager_Empty(t *testing.T) {
	m := New(DefaultDepth)
	if m.CanUndo() || m.CanRedo() {
		t.Fatal("new history should have nothing to undo or redo")
	}
	if b, ok := m.Undo(snapshot(t, 1)); ok || b != nil {
		t.Errorf("Undo on empty: got (%v, %v), want (nil, false)", b, ok)
	}
	if b, ok := m.Redo(snapshot(t, 1)); ok || b != nil {
		t.Errorf("Redo on empty: got (%v, %v), want (nil, false)", b, ok)
	}
	if m.RedoDepth() != 0 {
		t.Errorf("failed Undo must not touch redo: depth %d", m.RedoDepth())
	}
}

func TestManager_UndoRedo(t *testing.T) {
	m := New(0)

	// States 0 -> 1 -> 2 -> 3, current is 3.
	for v := uint8(0); v < 3; v++ {
		m.Record(snapshot(t, v))
	}
	current := snapshot(t, 3)

	for want := 2; want >= 0; want-- {
		prev, ok := m.Undo(current)
		if !ok {
			t.Fatalf("Undo to %d failed", want)
		}
		if value(prev) != uint8(want) {
			t.Fatalf("Undo: got %d, want %d", value(prev), want)
		}
		current = prev
	}
	if m.CanUndo() {
		t.Error("all states undone, CanUndo should be false")
	}

	for want := 1; want <= 3; want++ {
		next, ok := m.Redo(current)
		if !ok {
			t.Fatalf("Redo to %d failed", want)
		}
		if value(next) != uint8(want) {
			t.Fatalf("Redo: got %d, want %d", value(next), want)
		}
		current = next
	}
	if m.CanRedo() {
		t.Error("all states redone, CanRedo should be false")
	}
	if m.UndoDepth() != 3 {
		t.Errorf("UndoDepth after full redo: got %d, want 3", m.UndoDepth())
	}
}

func TestManager_RedoThenUndo(t *testing.T) {
	m := New(0)
	m.Record(snapshot(t, 0))
	current := snapshot(t, 1)

	prev, _ := m.Undo(current)
	next, _ := m.Redo(prev)
	if value(next) != 1 {
		t.Fatalf("Redo: got %d, want 1", value(next))
	}

	// Redo must leave the undo stack able to step back again.
	back, ok := m.Undo(next)
	if !ok || value(back) != 0 {
		t.Errorf("Undo after Redo: got (%v, %v), want state 0", back, ok)
	}
}

func TestManager_RecordClearsRedo(t *testing.T) {
	m := New(0)
	m.Record(snapshot(t, 0))
	prev, _ := m.Undo(snapshot(t, 1))
	if !m.CanRedo() {
		t.Fatal("Undo should make Redo available")
	}

	m.Record(prev)
	if m.CanRedo() {
		t.Error("Record must discard the redo history")
	}
}

func TestManager_Bounded(t *testing.T) {
	m := New(2)
	for v := uint8(0); v < 3; v++ {
		m.Record(snapshot(t, v))
	}

	if m.UndoDepth() != 2 {
		t.Fatalf("UndoDepth: got %d, want 2", m.UndoDepth())
	}
	if m.Evicted() != 1 {
		t.Errorf("Evicted: got %d, want 1", m.Evicted())
	}
	if m.Limit() != 2 {
		t.Errorf("Limit: got %d, want 2", m.Limit())
	}

	// The oldest state (0) was dropped.
	current := snapshot(t, 3)
	for _, want := range []uint8{2, 1} {
		prev, ok := m.Undo(current)
		if !ok || value(prev) != want {
			t.Fatalf("Undo: got (%v, %v), want state %d", prev, ok, want)
		}
		current = prev
	}
	if _, ok := m.Undo(current); ok {
		t.Error("Undo past the bound should fail")
	}
}

func TestManager_UnboundedGrowth(t *testing.T) {
	m := New(0)
	const n = 100
	for v := 0; v < n; v++ {
		m.Record(snapshot(t, uint8(v)))
	}
	if m.UndoDepth() != n {
		t.Fatalf("UndoDepth: got %d, want %d", m.UndoDepth(), n)
	}
	if m.Evicted() != 0 {
		t.Errorf("Evicted: got %d, want 0", m.Evicted())
	}

	current := snapshot(t, n)
	for want := n - 1; want >= 0; want-- {
		prev, ok := m.Undo(current)
		if !ok || value(prev) != uint8(want) {
			t.Fatalf("Undo: got (%v, %v), want state %d", prev, ok, want)
		}
		current = prev
	}
}

func TestManager_BoundedWrapAround(t *testing.T) {
	m := New(3)
	current := snapshot(t, 0)

	// Interleave undo and record so snapshots leave from both ends of the queue.
	for v := uint8(1); v <= 10; v++ {
		m.Record(current)
		current = snapshot(t, v)
		if v%4 == 0 {
			prev, ok := m.Undo(current)
			if !ok {
				t.Fatalf("Undo at %d failed", v)
			}
			m.Record(prev)
		}
	}
	if m.UndoDepth() != 3 {
		t.Fatalf("UndoDepth: got %d, want 3", m.UndoDepth())
	}

	prev, _ := m.Undo(current)
	if value(prev) != 9 {
		t.Errorf("newest snapshot: got %d, want 9", value(prev))
	}
}

func TestManager_Clear(t *testing.T) {
	m := New(2)
	for v := uint8(0); v < 4; v++ {
		m.Record(snapshot(t, v))
	}
	m.Undo(snapshot(t, 4))

	m.Clear()
	if m.CanUndo() || m.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
	if m.Evicted() != 0 {
		t.Errorf("Evicted after Clear: got %d, want 0", m.Evicted())
	}

	m.Record(snapshot(t, 7))
	prev, ok := m.Undo(snapshot(t, 8))
	if !ok || value(prev) != 7 {
		t.Errorf("history unusable after Clear: got (%v, %v)", prev, ok)
	}
}

func TestManager_SnapshotsAreCopies(t *testing.T) {
	m := New(0)
	b := snapshot(t, 5)
	m.Record(b)
	b.Pix[0] = 99

	cur := snapshot(t, 6)
	prev, _ := m.Undo(cur)
	if value(prev) != 5 {
		t.Fatalf("recorded snapshot changed with its source: got %d, want 5", value(prev))
	}
	cur.Pix[0] = 42

	next, _ := m.Redo(prev)
	if value(next) != 6 {
		t.Errorf("redo snapshot changed with its source: got %d, want 6", value(next))
	}
}

func TestManager_RecordNil(t *testing.T) {
	m := New(0)
	m.Record(nil)
	if m.CanUndo() {
		t.Error("recording nil should be ignored")
	}
}
