// Package imaging provides the pixel buffer, the editing transforms applied to
// it, and the file codec used to load and save it.
//
// # Buffers
//
// A Buffer is a row-major grid of 8-bit samples with 1 (gray) or 3 (RGB)
// interleaved channels. Buffers are values in spirit: transforms never modify
// their input and never return storage shared with another buffer.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner; X (column)
// increases rightward and Y (row) increases downward.
//
// # Transforms
//
// Grayscale, Blur, EdgeDetect, Brightness, Contrast, Rotate, Flip and Resize
// each map a buffer and parameters to a new buffer. The Library interface
// groups them so callers can substitute an implementation, and Build resolves
// an operation name plus Params into a Transform.
//
// # Error Handling
//
// Parameter problems are reported as ErrInvalidParameter and a missing image
// as ErrEmptyBuffer, both wrapped with context and matched with errors.Is.
// File errors from Load, Decode, Encode and SaveFile are wrapped with
// "failed to decode image" or "failed to encode image".
//
// # Thread Safety
//
// Transforms are stateless and may run concurrently on different buffers.
// ImageCache is safe for concurrent use.
package imaging
