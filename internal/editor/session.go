package editor

import (
	"fmt"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// Session holds the image being edited and the image as it was loaded.
//
// current is exclusively owned by the session and replaced wholesale by every
// transform. original is a private copy taken at load time that is never
// modified; Reset restores a copy of it.
//
// A Session is not safe for concurrent use. Editor serializes access to it.
type Session struct {
	current  *imaging.Buffer
	original *imaging.Buffer
}

// NewSession returns a session with no image loaded.
func NewSession() *Session {
	return &Session{}
}

// Load replaces both the current and original image with copies of b.
func (s *Session) Load(b *imaging.Buffer) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("cannot load image: %w", err)
	}
	s.current = b.Clone()
	s.original = b.Clone()
	return nil
}

// Loaded reports whether an image has been loaded.
func (s *Session) Loaded() bool {
	return s.current != nil
}

// Apply runs t on the current image and, if it succeeds, makes the result
// current. It returns the buffer that was replaced, which the session no
// longer references. On failure the session is unchanged.
func (s *Session) Apply(t imaging.Transform) (*imaging.Buffer, error) {
	if s.current == nil {
		return nil, imaging.ErrEmptyBuffer
	}
	next, err := t(s.current)
	if err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("transform produced an invalid image: %w", err)
	}
	prev := s.current
	s.current = next
	return prev, nil
}

// Reset replaces the current image with a copy of the original.
func (s *Session) Reset() error {
	if s.original == nil {
		return imaging.ErrEmptyBuffer
	}
	s.current = s.original.Clone()
	return nil
}

// Current returns the current image. The buffer stays owned by the session
// and must not be modified.
func (s *Session) Current() *imaging.Buffer {
	return s.current
}

// restore makes b current, taking ownership of it.
func (s *Session) restore(b *imaging.Buffer) {
	s.current = b
}
