// Package ringbuffer implements the upstream/downstream collaborator
// contracts the decoder is specified against: a sample-producing ring with
// available()/getReadPointer()/advance() and a byte-consuming ring whose
// Writeable()/Write() pair stands in for writeable()/getWritePointer()/
// advance(): Write copies a payload in and advances in one call, and there
// is no separate write pointer.
//
// These are concrete stand-ins for the real-time ring buffers an embedding
// host (an FM discriminator upstream, a socket or file writer downstream)
// would supply; the decoder package only depends on the narrower SampleSource
// and ByteSink interfaces, so a host may substitute its own buffers.
//
// Modeled on the teacher's audio_extensions/sstv/pcm_buffer.go
// SlidingPCMBuffer, restated as an index-modulo ring instead of a
// shift-on-write buffer: the decoder consumes strictly in order and never
// needs the FFT-centering slowrx's buffer was built for.
package ringbuffer

import "sync"

// SampleRing is a fixed-capacity, single-producer/single-consumer ring of
// normalized float32 samples.
type SampleRing struct {
	mu   sync.Mutex
	buf  []float32
	head int // next sample to be read
	tail int // next free slot to be written
	size int // number of unread samples currently buffered
}

// NewSampleRing creates a ring with room for capacity samples.
func NewSampleRing(capacity int) *SampleRing {
	return &SampleRing{buf: make([]float32, capacity)}
}

// Write appends as many of samples as fit and returns the count written.
func (r *SampleRing) Write(samples []float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for n < len(samples) && r.size < len(r.buf) {
		r.buf[r.tail] = samples[n]
		r.tail = (r.tail + 1) % len(r.buf)
		r.size++
		n++
	}
	return n
}

// Available returns how many unread samples are buffered.
func (r *SampleRing) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// ReadPointer returns a contiguous copy of the next n unread samples without
// consuming them. It panics if n exceeds Available(), since the decoder is
// specified to check canProcess()/Available() before reading.
func (r *SampleRing) ReadPointer(n int) []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > r.size {
		panic("ringbuffer: ReadPointer requested more samples than available")
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

// Advance consumes n samples, making room for new writes.
func (r *SampleRing) Advance(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > r.size {
		n = r.size
	}
	r.head = (r.head + n) % len(r.buf)
	r.size -= n
}

// ByteRing is a fixed-capacity, single-producer/single-consumer ring of
// output bytes.
type ByteRing struct {
	mu   sync.Mutex
	buf  []byte
	head int
	tail int
	size int
}

// NewByteRing creates a ring with room for capacity bytes.
func NewByteRing(capacity int) *ByteRing {
	return &ByteRing{buf: make([]byte, capacity)}
}

// Writeable returns how many bytes can currently be written without
// overflowing the ring.
func (r *ByteRing) Writeable() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf) - r.size
}

// Write appends p, returning the number of bytes actually written. Callers
// performing an atomic payload (a frame marker, a descriptor, one output
// row) must check Writeable() first, per the decoder's output contract.
func (r *ByteRing) Write(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for n < len(p) && r.size < len(r.buf) {
		r.buf[r.tail] = p[n]
		r.tail = (r.tail + 1) % len(r.buf)
		r.size++
		n++
	}
	return n
}

// Read drains up to len(p) buffered bytes into p, returning the count read.
func (r *ByteRing) Read(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for n < len(p) && r.size > 0 {
		p[n] = r.buf[r.head]
		r.head = (r.head + 1) % len(r.buf)
		r.size--
		n++
	}
	return n
}

// Len returns the number of unread bytes currently buffered.
func (r *ByteRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
