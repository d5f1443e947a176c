package decoder

import (
	"testing"

	"github.com/kb4yz/sstvdemod/internal/dsp"
)

func TestMapSampleToByteClampsAndScales(t *testing.T) {
	cases := []struct {
		corrected float64
		want      uint8
	}{
		{dsp.C1500 - 1, 0},
		{dsp.C1500, 0},
		{dsp.C2300, 255},
		{dsp.C2300 + 1, 255},
		{dsp.C1500 + (dsp.C2300-dsp.C1500)*127.75/255, 128}, // 127.75 rounds up; truncation would give 127
	}
	for _, c := range cases {
		if got := mapSampleToByte(c.corrected); got != c.want {
			t.Fatalf("mapSampleToByte(%v) = %d, want %d", c.corrected, got, c.want)
		}
	}
}

// expectedEdgeCommit mirrors edgeSearch's majority rule: the search commits
// as soon as a 50-sample window is 26+ samples past the edge, or at start
// if that already holds there.
func expectedEdgeCommit(edge, start int) int {
	c := edge - (edgeBoxcar - edgeMajority - 1)
	if c < start {
		return start
	}
	return c
}

func TestEdgeSearchCommitsOnceMajorityPastEdge(t *testing.T) {
	src := newFakeSource(nil)
	const dur = 200.0 / dsp.SampleRate
	nominal := int(dur * dsp.SampleRate)
	start := int(0.9 * float64(nominal))
	const edge = 250 // comfortably inside [start, 1.5*nominal)

	samples := make([]float32, int(1.5*float64(nominal))+edgeBoxcar+10)
	for i := range samples {
		if i < edge {
			samples[i] = float32(dsp.C1200)
		} else {
			samples[i] = float32(dsp.C2300)
		}
	}
	src.buf = samples

	d := &Decoder{src: src, invert: 1}
	d.edgeSearch(dur)

	want := expectedEdgeCommit(edge, start)
	if src.advanced != want {
		t.Fatalf("advanced %d samples, want %d", src.advanced, want)
	}
}

func TestEdgeSearchFallsBackToNominalWhenNoEdgeFound(t *testing.T) {
	src := newFakeSource(nil)
	const dur = 9e-3
	nominal := int(dur * dsp.SampleRate)

	samples := make([]float32, int(1.5*float64(nominal))+edgeBoxcar+10)
	for i := range samples {
		samples[i] = float32(dsp.C1200) // never rises above threshold
	}
	src.buf = samples

	d := &Decoder{src: src, invert: 1}
	d.edgeSearch(dur)
	if src.advanced != nominal {
		t.Fatalf("advanced %d samples, want fallback of %d", src.advanced, nominal)
	}
}

// fakeSource is a minimal SampleSource backed by a plain slice, for
// exercising edgeSearch/samplePixels without a full ring buffer.
type fakeSource struct {
	buf      []float32
	advanced int
}

func newFakeSource(buf []float32) *fakeSource { return &fakeSource{buf: buf} }

func (f *fakeSource) Available() int { return len(f.buf) - f.advanced }

func (f *fakeSource) ReadPointer(n int) []float32 {
	if n > f.Available() {
		panic("fakeSource: read past available samples")
	}
	out := make([]float32, n)
	copy(out, f.buf[f.advanced:f.advanced+n])
	return out
}

func (f *fakeSource) Advance(n int) { f.advanced += n }
