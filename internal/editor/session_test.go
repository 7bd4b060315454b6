package editor

import (
	"errors"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

func TestSession_ApplyBeforeLoad(t *testing.T) {
	s := NewSession()
	if s.Loaded() {
		t.Fatal("new session should not be loaded")
	}
	_, err := s.Apply(imaging.Grayscale)
	if !errors.Is(err, imaging.ErrEmptyBuffer) {
		t.Errorf("Apply: got %v, want ErrEmptyBuffer", err)
	}
	if err := s.Reset(); !errors.Is(err, imaging.ErrEmptyBuffer) {
		t.Errorf("Reset: got %v, want ErrEmptyBuffer", err)
	}
}

func TestSession_LoadInvalid(t *testing.T) {
	s := NewSession()
	bad := &imaging.Buffer{Width: 2, Height: 2, Channels: 3, Pix: make([]uint8, 5)}
	if err := s.Load(bad); err == nil {
		t.Fatal("Load should reject an inconsistent buffer")
	}
	if s.Loaded() {
		t.Error("failed Load must leave the session empty")
	}
}

func TestSession_LoadCopies(t *testing.T) {
	src := newCheckerboard(t, 4, 4)
	s := NewSession()
	if err := s.Load(src); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	src.Set(0, 0, 0, 7)
	if s.Current().At(0, 0, 0) == 7 {
		t.Error("session shares storage with the loaded buffer")
	}
}

func TestSession_ApplyReturnsPrevious(t *testing.T) {
	src := newCheckerboard(t, 4, 4)
	s := NewSession()
	if err := s.Load(src); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	prev, err := s.Apply(imaging.Grayscale)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !prev.Equal(src) {
		t.Error("Apply should return the replaced image")
	}
	if s.Current().Channels != 1 {
		t.Errorf("Channels: got %d, want 1", s.Current().Channels)
	}
}

func TestSession_FailedTransformKeepsImage(t *testing.T) {
	src := newCheckerboard(t, 4, 4)
	s := NewSession()
	if err := s.Load(src); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	failing := func(*imaging.Buffer) (*imaging.Buffer, error) {
		return nil, imaging.ErrInvalidParameter
	}
	if _, err := s.Apply(failing); !errors.Is(err, imaging.ErrInvalidParameter) {
		t.Fatalf("Apply: got %v, want ErrInvalidParameter", err)
	}

	broken := func(*imaging.Buffer) (*imaging.Buffer, error) {
		return &imaging.Buffer{Width: 1, Height: 1, Channels: 3}, nil
	}
	if _, err := s.Apply(broken); err == nil {
		t.Fatal("Apply should reject an invalid transform result")
	}

	if !s.Current().Equal(src) {
		t.Error("failed Apply changed the image")
	}
}

func TestSession_Reset(t *testing.T) {
	src := newCheckerboard(t, 4, 4)
	s := NewSession()
	if err := s.Load(src); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	for _, tr := range []imaging.Transform{imaging.Grayscale, imaging.Grayscale} {
		if _, err := s.Apply(tr); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !s.Current().Equal(src) {
		t.Error("Reset should restore the loaded image exactly")
	}

	// The original survives edits made after a reset.
	if _, err := s.Apply(imaging.Grayscale); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if !s.Current().Equal(src) {
		t.Error("second Reset did not restore the loaded image")
	}
}
