package editor

import (
	"fmt"
	"log"
	"sync"

	"github.com/ironsheep/image-edit-mcp/internal/history"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// Editor ties a Session to its undo/redo history.
//
// Every method takes the editor's lock, so an Editor may be shared between
// goroutines; all mutations and the snapshots they take are serialized.
type Editor struct {
	mu      sync.Mutex
	lib     imaging.Library
	session *Session
	history *history.Manager
	path    string
	format  string
	debug   bool
}

// Option configures an Editor.
type Option func(*Editor)

// WithLibrary selects the transform implementation. The default is
// imaging.Transforms.
func WithLibrary(lib imaging.Library) Option {
	return func(e *Editor) {
		if lib != nil {
			e.lib = lib
		}
	}
}

// WithHistoryDepth bounds the undo history; 0 keeps every step.
func WithHistoryDepth(depth int) Option {
	return func(e *Editor) {
		e.history = history.New(depth)
	}
}

// WithDebugLog enables a log line for every edit.
func WithDebugLog(enabled bool) Option {
	return func(e *Editor) {
		e.debug = enabled
	}
}

// New creates an editor with no image loaded.
func New(opts ...Option) *Editor {
	e := &Editor{
		lib:     imaging.Transforms{},
		session: NewSession(),
		history: history.New(history.DefaultDepth),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State describes the editor for status display.
type State struct {
	Loaded       bool   `json:"loaded"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	Channels     int    `json:"channels,omitempty"`
	Path         string `json:"path,omitempty"`
	Format       string `json:"format,omitempty"`
	CanUndo      bool   `json:"can_undo"`
	CanRedo      bool   `json:"can_redo"`
	UndoDepth    int    `json:"undo_depth"`
	RedoDepth    int    `json:"redo_depth"`
	HistoryLimit int    `json:"history_limit"`

	// HistoryEvicted counts undo steps dropped because the history was full.
	HistoryEvicted int `json:"history_evicted"`
}

// Load starts a new editing session on a copy of b and clears the history.
func (e *Editor) Load(b *imaging.Buffer) error {
	return e.Open(b, "", "")
}

// Open is Load for an image that came from a file. path and format are
// remembered for Save and reported by State.
func (e *Editor) Open(b *imaging.Buffer, path, format string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Load(b); err != nil {
		return err
	}
	e.history.Clear()
	e.path = path
	e.format = format
	e.debugf("loaded %dx%dx%d image %s", b.Width, b.Height, b.Channels, path)
	return nil
}

// Apply runs the named operation on the current image and records the
// previous image for Undo.
//
// # Errors
//
//   - imaging.ErrEmptyBuffer if no image is loaded
//   - imaging.ErrInvalidParameter for an unknown name or bad parameters
//
// On error neither the image nor the history changes.
func (e *Editor) Apply(name string, p imaging.Params) error {
	t, err := imaging.Build(e.lib, name, p)
	if err != nil {
		return err
	}
	if err := e.ApplyTransform(t); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ApplyTransform runs t on the current image and records the previous image
// for Undo. On error neither the image nor the history changes.
func (e *Editor) ApplyTransform(t imaging.Transform) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, err := e.session.Apply(t)
	if err != nil {
		return err
	}
	e.history.Record(prev)
	cur := e.session.Current()
	e.debugf("applied transform: now %dx%dx%d, undo depth %d", cur.Width, cur.Height, cur.Channels, e.history.UndoDepth())
	return nil
}

// Undo restores the image before the last change. It returns false, and
// changes nothing, when there is no earlier state.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, ok := e.history.Undo(e.session.Current())
	if !ok {
		return false
	}
	e.session.restore(prev)
	e.debugf("undo: undo depth %d, redo depth %d", e.history.UndoDepth(), e.history.RedoDepth())
	return true
}

// Redo re-applies the last undone change. It returns false, and changes
// nothing, when there is no undone state.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	next, ok := e.history.Redo(e.session.Current())
	if !ok {
		return false
	}
	e.session.restore(next)
	e.debugf("redo: undo depth %d, redo depth %d", e.history.UndoDepth(), e.history.RedoDepth())
	return true
}

// Reset restores the image as it was loaded. It does not touch the history.
func (e *Editor) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.Reset(); err != nil {
		return err
	}
	e.debugf("reset to original image")
	return nil
}

// Current returns a copy of the current image, or nil if none is loaded.
func (e *Editor) Current() *imaging.Buffer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Current().Clone()
}

// View calls fn with the current image while holding the editor's lock. fn
// must not modify the buffer or keep it after returning.
func (e *Editor) View(fn func(*imaging.Buffer) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.session.Current()
	if cur == nil {
		return imaging.ErrEmptyBuffer
	}
	return fn(cur)
}

// SetPath records where the current image was saved.
func (e *Editor) SetPath(path, format string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.path = path
	e.format = format
}

// Path returns the file the image was opened from or last saved to.
func (e *Editor) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// State returns a summary of the editor.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{
		Loaded:       e.session.Loaded(),
		Path:         e.path,
		Format:       e.format,
		CanUndo:      e.history.CanUndo(),
		CanRedo:      e.history.CanRedo(),
		UndoDepth:    e.history.UndoDepth(),
		RedoDepth:    e.history.RedoDepth(),
		HistoryLimit: e.history.Limit(),

		HistoryEvicted: e.history.Evicted(),
	}
	if cur := e.session.Current(); cur != nil {
		st.Width, st.Height, st.Channels = cur.Dimensions()
	}
	return st
}

func (e *Editor) debugf(format string, args ...interface{}) {
	if e.debug {
		log.Printf(format, args...)
	}
}
