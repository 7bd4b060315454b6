package editor

import (
	"errors"
	"sync"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// newCheckerboard creates a 3-channel buffer alternating red and white pixels.
func newCheckerboard(t *testing.T, width, height int) *imaging.Buffer {
	t.Helper()
	b, err := imaging.NewBuffer(width, height, 3)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			b.Set(y, x, 0, 255)
			if (x+y)%2 != 0 {
				b.Set(y, x, 1, 255)
				b.Set(y, x, 2, 255)
			}
		}
	}
	return b
}

func newLoadedEditor(t *testing.T, opts ...Option) (*Editor, *imaging.Buffer) {
	t.Helper()
	src := newCheckerboard(t, 4, 4)
	e := New(opts...)
	if err := e.Load(src); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return e, src
}

func offset(v int) imaging.Params {
	return imaging.Params{Offset: &v}
}

func percent(v float64) imaging.Params {
	return imaging.Params{Percent: &v}
}

func flip(dir string) imaging.Params {
	return imaging.Params{Direction: &dir}
}

func TestEditor_UndoToOriginal(t *testing.T) {
	e, src := newLoadedEditor(t)

	if err := e.Apply(imaging.OpGrayscale, imaging.Params{}); err != nil {
		t.Fatalf("grayscale failed: %v", err)
	}
	if err := e.Apply(imaging.OpBrightness, offset(50)); err != nil {
		t.Fatalf("brightness failed: %v", err)
	}
	if got := e.Current().Channels; got != 1 {
		t.Fatalf("Channels after grayscale: got %d, want 1", got)
	}

	for i := 0; i < 2; i++ {
		if !e.Undo() {
			t.Fatalf("Undo %d failed", i+1)
		}
	}
	if !e.Current().Equal(src) {
		t.Error("two undos should restore the loaded image exactly")
	}
	if e.Undo() {
		t.Error("Undo past the loaded image should report false")
	}
	if !e.Current().Equal(src) {
		t.Error("a failed Undo changed the image")
	}
	if !e.Redo() || !e.Redo() {
		t.Fatal("two Redos should restore both edits")
	}
	redone := e.Current()
	if e.Redo() {
		t.Error("a third Redo should report false")
	}
	if !e.Current().Equal(redone) {
		t.Error("a failed Redo changed the image")
	}
	if e.State().Channels != 1 {
		t.Errorf("after two redos: got %d channels, want 1", e.State().Channels)
	}
}

func TestEditor_UndoRedoRoundTrip(t *testing.T) {
	e, src := newLoadedEditor(t, WithHistoryDepth(0))

	steps := []struct {
		op string
		p  imaging.Params
	}{
		{imaging.OpFlip, flip("horizontal")},
		{imaging.OpBrightness, offset(-30)},
		{imaging.OpContrast, percent(80)},
		{imaging.OpResize, percent(50)},
		{imaging.OpGrayscale, imaging.Params{}},
	}
	for _, s := range steps {
		if err := e.Apply(s.op, s.p); err != nil {
			t.Fatalf("%s failed: %v", s.op, err)
		}
	}
	edited := e.Current()

	for i := range steps {
		if !e.Undo() {
			t.Fatalf("Undo %d failed", i+1)
		}
	}
	if !e.Current().Equal(src) {
		t.Fatal("undoing every step should restore the loaded image")
	}

	for i := range steps {
		if !e.Redo() {
			t.Fatalf("Redo %d failed", i+1)
		}
	}
	if !e.Current().Equal(edited) {
		t.Error("redoing every step should restore the edited image")
	}
	if e.Redo() {
		t.Error("Redo with nothing undone should report false")
	}
}

func TestEditor_ApplyAfterUndoClearsRedo(t *testing.T) {
	e, _ := newLoadedEditor(t)
	if err := e.Apply(imaging.OpGrayscale, imaging.Params{}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	e.Undo()
	if !e.State().CanRedo {
		t.Fatal("Undo should make Redo available")
	}

	if err := e.Apply(imaging.OpFlip, flip("vertical")); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if e.State().CanRedo {
		t.Error("a new edit must discard the redo history")
	}
	if e.Redo() {
		t.Error("Redo should report false after a new edit")
	}
}

func TestEditor_NotLoaded(t *testing.T) {
	e := New()

	if err := e.Apply(imaging.OpGrayscale, imaging.Params{}); !errors.Is(err, imaging.ErrEmptyBuffer) {
		t.Errorf("Apply: got %v, want ErrEmptyBuffer", err)
	}
	if err := e.Reset(); !errors.Is(err, imaging.ErrEmptyBuffer) {
		t.Errorf("Reset: got %v, want ErrEmptyBuffer", err)
	}
	if err := e.View(func(*imaging.Buffer) error { return nil }); !errors.Is(err, imaging.ErrEmptyBuffer) {
		t.Errorf("View: got %v, want ErrEmptyBuffer", err)
	}
	if e.Undo() || e.Redo() {
		t.Error("Undo and Redo should report false without an image")
	}
	if e.Current() != nil {
		t.Error("Current should be nil without an image")
	}
	if st := e.State(); st.Loaded || st.Width != 0 {
		t.Errorf("State: got %+v, want an unloaded state", st)
	}
}

func TestEditor_InvalidParametersChangeNothing(t *testing.T) {
	tests := []struct {
		name string
		op   string
		p    imaging.Params
	}{
		{"unknown operation", "sharpen", imaging.Params{}},
		{"even kernel", imaging.OpBlur, imaging.Params{KernelSize: intPtr(4)}},
		{"brightness out of range", imaging.OpBrightness, offset(300)},
		{"negative contrast", imaging.OpContrast, percent(-5)},
		{"zero resize", imaging.OpResize, percent(0)},
		{"missing resize percent", imaging.OpResize, imaging.Params{}},
		{"missing contrast percent", imaging.OpContrast, imaging.Params{}},
		{"missing brightness offset", imaging.OpBrightness, imaging.Params{}},
		{"missing rotate angle", imaging.OpRotate, imaging.Params{}},
		{"missing flip direction", imaging.OpFlip, imaging.Params{}},
		{"bad direction", imaging.OpFlip, flip("diagonal")},
		{"inverted thresholds", imaging.OpEdgeDetection, imaging.Params{ThresholdLow: intPtr(200), ThresholdHigh: intPtr(100)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, src := newLoadedEditor(t)
			if err := e.Apply(imaging.OpGrayscale, imaging.Params{}); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			before := e.Current()
			stateBefore := e.State()

			err := e.Apply(tt.op, tt.p)
			if !errors.Is(err, imaging.ErrInvalidParameter) {
				t.Fatalf("got %v, want ErrInvalidParameter", err)
			}
			if !e.Current().Equal(before) {
				t.Error("failed Apply changed the image")
			}
			if e.State() != stateBefore {
				t.Errorf("failed Apply changed the state: got %+v, want %+v", e.State(), stateBefore)
			}
			if !e.Undo() || !e.Current().Equal(src) {
				t.Error("history should still step back to the loaded image")
			}
		})
	}
}

func intPtr(v int) *int {
	return &v
}

func TestEditor_BoundedHistory(t *testing.T) {
	e, _ := newLoadedEditor(t, WithHistoryDepth(2))
	for i := 0; i < 5; i++ {
		if err := e.Apply(imaging.OpBrightness, offset(10)); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	st := e.State()
	if st.UndoDepth != 2 || st.HistoryLimit != 2 {
		t.Fatalf("State: got depth %d limit %d, want 2 and 2", st.UndoDepth, st.HistoryLimit)
	}
	if st.HistoryEvicted != 3 {
		t.Errorf("HistoryEvicted: got %d, want 3", st.HistoryEvicted)
	}
	undone := 0
	for e.Undo() {
		undone++
	}
	if undone != 2 {
		t.Errorf("undo steps: got %d, want 2", undone)
	}
}

func TestEditor_LoadClearsHistory(t *testing.T) {
	e, _ := newLoadedEditor(t)
	if err := e.Apply(imaging.OpGrayscale, imaging.Params{}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	e.Undo()

	other := newCheckerboard(t, 2, 2)
	if err := e.Open(other, "/tmp/other.png", "png"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	st := e.State()
	if st.CanUndo || st.CanRedo {
		t.Error("loading an image should clear the history")
	}
	if st.Path != "/tmp/other.png" || st.Format != "png" || st.Width != 2 {
		t.Errorf("State: got %+v", st)
	}
}

func TestEditor_ResetKeepsHistory(t *testing.T) {
	e, src := newLoadedEditor(t)
	if err := e.Apply(imaging.OpFlip, flip("horizontal")); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := e.Apply(imaging.OpBrightness, offset(40)); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := e.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !e.Current().Equal(src) {
		t.Fatal("Reset should restore the loaded image byte for byte")
	}
	if got := e.State().UndoDepth; got != 2 {
		t.Errorf("UndoDepth after Reset: got %d, want 2", got)
	}

	// The step undone after a reset is the last recorded edit.
	if !e.Undo() {
		t.Fatal("Undo after Reset failed")
	}
	if !e.Redo() || !e.Current().Equal(src) {
		t.Error("Redo should return to the reset image")
	}
}

func TestEditor_CurrentIsCopy(t *testing.T) {
	e, src := newLoadedEditor(t)
	c := e.Current()
	c.Set(0, 0, 0, 1)
	if !e.Current().Equal(src) {
		t.Error("modifying the result of Current changed the editor")
	}
}

// countingLibrary wraps the default transforms and counts grayscale calls.
type countingLibrary struct {
	imaging.Transforms
	mu    sync.Mutex
	calls int
}

func (l *countingLibrary) Grayscale(b *imaging.Buffer) (*imaging.Buffer, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	return l.Transforms.Grayscale(b)
}

func TestEditor_WithLibrary(t *testing.T) {
	lib := &countingLibrary{}
	e, _ := newLoadedEditor(t, WithLibrary(lib))
	if err := e.Apply(imaging.OpGrayscale, imaging.Params{}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if lib.calls != 1 {
		t.Errorf("library calls: got %d, want 1", lib.calls)
	}
}

func TestEditor_ConcurrentApply(t *testing.T) {
	e, _ := newLoadedEditor(t, WithHistoryDepth(0))

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			dir := "horizontal"
			if i%2 == 1 {
				dir = "vertical"
			}
			if err := e.Apply(imaging.OpFlip, flip(dir)); err != nil {
				t.Errorf("Apply failed: %v", err)
			}
			_ = e.State()
		}(i)
	}
	wg.Wait()

	if got := e.State().UndoDepth; got != n {
		t.Errorf("UndoDepth: got %d, want %d", got, n)
	}
}
