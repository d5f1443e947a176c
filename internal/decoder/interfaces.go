// Package decoder implements the sync/VIS detector and line decoder state
// machine described by the spec: a streaming demodulator that turns
// normalized 12 kHz samples into framing markers, an image descriptor, and
// RGB888 scanlines.
package decoder

// SampleSource is the upstream collaborator contract: a ring of normalized
// float32 samples the decoder consumes strictly in order.
type SampleSource interface {
	// Available returns the number of unread samples currently buffered.
	Available() int
	// ReadPointer returns (without consuming) the next n unread samples.
	// Callers must not request more than Available().
	ReadPointer(n int) []float32
	// Advance consumes n samples.
	Advance(n int)
}

// ByteSink is the downstream collaborator contract: a ring of output bytes.
type ByteSink interface {
	// Writeable returns how many bytes can be written without overflow.
	Writeable() int
	// Write appends p, returning the number of bytes written.
	Write(p []byte) int
}
