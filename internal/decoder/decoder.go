package decoder

import (
	"log"

	"github.com/kb4yz/sstvdemod/internal/dsp"
	"github.com/kb4yz/sstvdemod/internal/sstvmode"
)

// State is the decoder's top-level mode: hunting for a calibration header,
// or scanning an image whose VIS code has already been decoded.
type State int

const (
	StateSync State = iota
	StateData
)

// Stats counts notable events across the decoder's lifetime, promoted from
// what the original implementation only logged to stderr.
type Stats struct {
	CandidatesEvaluated uint64
	ImagesCompleted     uint64
	VISParityFailures   uint64
	ModeNotImplemented  uint64
}

// Decoder is the full sync/VIS/line state machine. It owns no buffering of
// its own; it drives a SampleSource and a ByteSink one Process() step at a
// time.
type Decoder struct {
	src SampleSource
	dst ByteSink

	logger *log.Logger

	state   State
	readPos int64

	fifo   candidateQueue
	offset float64
	invert int

	mode        *sstvmode.Mode
	currentLine int
	lineOffset  float64

	yuv420PrevY      []uint8
	yuv420PrevChroma []uint8

	probeOnly   bool
	inputClosed bool

	stats Stats
}

// New constructs a Decoder reading from src and writing to dst. A nil
// logger is replaced with one that discards everything, so the decoder is
// silent by default and callers opt into logging explicitly.
func New(src SampleSource, dst ByteSink, logger *log.Logger) *Decoder {
	if logger == nil {
		logger = log.New(discardWriter{}, "", 0)
	}
	return &Decoder{
		src:    src,
		dst:    dst,
		logger: logger,
		invert: 1,
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// CanProcess reports whether enough input is buffered for one Process()
// step: 910ms (the three-segment header plus the VIS code) while hunting for
// sync, or a worst-case line's worth of samples while scanning an image.
func (d *Decoder) CanProcess() bool {
	switch d.state {
	case StateSync:
		return d.src.Available() >= int(0.91*dsp.SampleRate)
	case StateData:
		m := d.mode
		required := m.LineSyncDuration() + float64(m.ComponentCount())*(2*m.ComponentSyncDuration(0)+m.ComponentDuration(0))
		return d.src.Available() >= int(required*dsp.SampleRate)
	default:
		return false
	}
}

// Process performs exactly one step: evaluating or committing a sync
// candidate, or scanning one physical line of an in-progress image.
func (d *Decoder) Process() {
	switch d.state {
	case StateSync:
		d.syncStep()
	case StateData:
		d.dataStep()
	}
}

// Stats returns a snapshot of the decoder's lifetime counters.
func (d *Decoder) Stats() Stats { return d.stats }

// Mode returns the mode currently being scanned, or nil while hunting for
// sync.
func (d *Decoder) Mode() *sstvmode.Mode { return d.mode }

// SetProbeOnly, when enabled, makes a successful header/VIS commit return
// straight to StateSync instead of scanning the image: the SYNC marker and
// descriptor are still emitted, but no scanline work happens at all.
func (d *Decoder) SetProbeOnly(probe bool) { d.probeOnly = probe }

// CloseInput tells the decoder that src will never receive more samples, so
// Run can tell a genuine stall (source exhausted) apart from ordinary
// backoff while waiting on a live feed.
func (d *Decoder) CloseInput() { d.inputClosed = true }

// Finished reports whether the decoder has consumed all the input it will
// ever see and can no longer make progress with what remains buffered.
func (d *Decoder) Finished() bool {
	return d.inputClosed && !d.CanProcess()
}

func (d *Decoder) advance(n int) {
	if n <= 0 {
		return
	}
	d.src.Advance(n)
	d.readPos += int64(n)
}
