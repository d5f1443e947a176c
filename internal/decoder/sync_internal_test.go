package decoder

import (
	"math"
	"testing"

	"github.com/kb4yz/sstvdemod/internal/dsp"
	"github.com/kb4yz/sstvdemod/internal/sstvtest"
)

func TestEvaluateCandidateAcceptsCleanHeader(t *testing.T) {
	header := sstvtest.Header(0, 1)
	win := toFloat64(header)
	cand := evaluateCandidate(win, 0)
	if cand.err >= candidatePushThreshold {
		t.Fatalf("error = %v, want < %v", cand.err, candidatePushThreshold)
	}
	if cand.invert != 1 {
		t.Fatalf("invert = %d, want 1", cand.invert)
	}
	// The generator emits float32 samples, so the recovered offset carries
	// float32 rounding (~1e-8 at these levels).
	if math.Abs(cand.offset) > 1e-7 {
		t.Fatalf("offset = %v, want ~0", cand.offset)
	}
}

func TestEvaluateCandidateRecoversOffsetAndInvert(t *testing.T) {
	header := sstvtest.Header(0.02, -1)
	win := toFloat64(header)
	cand := evaluateCandidate(win, 0)
	if cand.err >= candidatePushThreshold {
		t.Fatalf("error = %v, want < %v", cand.err, candidatePushThreshold)
	}
	if cand.invert != -1 {
		t.Fatalf("invert = %d, want -1", cand.invert)
	}
	if math.Abs(cand.offset-0.02) > 1e-7 {
		t.Fatalf("offset = %v, want ~0.02", cand.offset)
	}
}

func TestEvaluateCandidateRejectsMismatchedTones(t *testing.T) {
	flat := make([]float32, headerLen)
	for i := range flat {
		flat[i] = float32(dsp.C1500) // a steady carrier, not the header shape
	}
	cand := evaluateCandidate(toFloat64(flat), 0)
	if !math.IsInf(cand.err, 1) {
		t.Fatalf("error = %v, want +Inf", cand.err)
	}
}

func TestDecodeVISRoundTrips(t *testing.T) {
	for vis := 0; vis < 128; vis++ {
		win := toFloat64(sstvtest.VIS(uint8(vis), 0, 1))
		got, ok := decodeVIS(win, 0, 1)
		if !ok {
			t.Fatalf("vis %d: decode rejected", vis)
		}
		if got != uint8(vis) {
			t.Fatalf("vis %d: decoded %d", vis, got)
		}
	}
}

func TestDecodeVISRejectsBadParity(t *testing.T) {
	win := toFloat64(sstvtest.VIS(44, 0, 1))
	// Flip the parity tile (tile index 8) to break even parity.
	start := 8 * visTileLen
	for i := start; i < start+visTileLen; i++ {
		if win[i] < dsp.C1200 {
			win[i] = dsp.C1300
		} else {
			win[i] = dsp.C1100
		}
	}
	if _, ok := decodeVIS(win, 0, 1); ok {
		t.Fatal("expected parity failure to be rejected")
	}
}

func TestCandidateQueueEvictsOldestAndFindsMin(t *testing.T) {
	q := &candidateQueue{}
	q.push(candidate{err: 0.4, start: 0})
	q.push(candidate{err: 0.1, start: 1})
	q.push(candidate{err: 0.3, start: 2})

	best, idx := q.min()
	if idx != 1 || best.start != 1 {
		t.Fatalf("min = %+v at %d, want start=1 at idx 1", best, idx)
	}

	q.popFront()
	if q.len() != 2 {
		t.Fatalf("len = %d, want 2", q.len())
	}
	if q.items[0].start != 1 {
		t.Fatalf("front = %+v, want start=1", q.items[0])
	}
}
