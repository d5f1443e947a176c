package decoder

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/kb4yz/sstvdemod/internal/dsp"
	"github.com/kb4yz/sstvdemod/internal/sstvmode"
)

// Header window layout, in samples at 12 kHz: 300ms of 1900Hz leader,
// 10ms of 1200Hz break, 300ms of 1900Hz leader.
const (
	headerSeg0 = 3600
	headerSeg1 = 120
	headerSeg2 = 3600
	headerLen  = headerSeg0 + headerSeg1 + headerSeg2 // 7320

	visTileLen   = 360 // 30ms
	visTileCount = 10
	visLen       = visTileLen * visTileCount // 3600

	visCommitOffset = headerLen // VIS begins exactly at the header's end

	candidatePushThreshold   = 0.5
	candidateCommitThreshold = 0.3
	candidateCapacity        = 100
	toneAgreementTolerance   = 100.0 / dsp.Nyquist
	visMeanDeviationLimit    = 0.1
)

// candidate is one hypothesis for where the calibration header begins.
type candidate struct {
	err    float64
	offset float64
	invert int
	start  int64
}

// candidateQueue is the bounded, FIFO-evicted window of recent candidates
// the sync detector keeps while waiting for the best one to settle out.
type candidateQueue struct {
	items []candidate
}

func (q *candidateQueue) push(c candidate) { q.items = append(q.items, c) }
func (q *candidateQueue) len() int         { return len(q.items) }
func (q *candidateQueue) clear()           { q.items = q.items[:0] }

func (q *candidateQueue) popFront() {
	q.items = q.items[1:]
}

// min returns the lowest-error candidate and its index. Ties resolve to the
// earliest (oldest) entry, since that is the one min() would return on the
// first pass of a stable scan.
func (q *candidateQueue) min() (candidate, int) {
	best := 0
	for i := 1; i < len(q.items); i++ {
		if q.items[i].err < q.items[best].err {
			best = i
		}
	}
	return q.items[best], best
}

// evaluateCandidate scores a 7320-sample window as a possible calibration
// header: two 300ms runs of ~1900Hz bracketing a 10ms run of ~1200Hz, tried
// against both signal polarities. Returns a candidate with err=+Inf when
// neither polarity's three windows agree on a common DC offset.
func evaluateCandidate(win []float64, start int64) candidate {
	seg0 := win[0:headerSeg0]
	seg1 := win[headerSeg0 : headerSeg0+headerSeg1]
	seg2 := win[headerSeg0+headerSeg1 : headerLen]

	m0, d0 := dsp.StdDev(seg0, len(seg0))
	m1, d1 := dsp.StdDev(seg1, len(seg1))
	m2, d2 := dsp.StdDev(seg2, len(seg2))

	for _, f := range [2]int{1, -1} {
		// Each segment's mean is f*(tone+offset); since f*f == 1, solving
		// for offset gives f*mean - tone, not mean - f*tone (that only
		// happens to agree with this when f == 1).
		o0 := float64(f)*m0 - dsp.C1900
		o1 := float64(f)*m1 - dsp.C1200
		o2 := float64(f)*m2 - dsp.C1900

		maxO := math.Max(o0, math.Max(o1, o2))
		minO := math.Min(o0, math.Min(o1, o2))
		if maxO-minO < toneAgreementTolerance {
			return candidate{
				err:    (d0 + d1 + d2) / 3,
				offset: (o0 + o1 + o2) / 3,
				invert: f,
				start:  start,
			}
		}
	}
	return candidate{err: math.Inf(1)}
}

// decodeVIS reads the 10 VIS tiles (start bit, 7 data bits LSB-first, even
// parity bit, stop bit), each 30ms, and returns the 7-bit mode code.
func decodeVIS(win []float64, offset float64, invert int) (vis uint8, ok bool) {
	means := make([]float64, visTileCount)
	devSum := 0.0
	for t := 0; t < visTileCount; t++ {
		seg := win[t*visTileLen : (t+1)*visTileLen]
		mean, dev := dsp.StdDev(seg, len(seg))
		means[t] = mean
		devSum += dev
	}
	if devSum/visTileCount > visMeanDeviationLimit {
		return 0, false
	}

	bit := func(tile int) bool {
		corrected := float64(invert)*means[tile] - offset
		return corrected < dsp.C1200
	}

	var data uint8
	for i := 0; i < 7; i++ {
		if bit(1 + i) {
			data |= 1 << uint(i)
		}
	}
	wantParity := bits.OnesCount8(data)%2 == 1 // even total parity
	if bit(8) != wantParity {
		return 0, false
	}
	return data, true
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// syncStep performs one evaluate-or-commit step of the sync/VIS state
// machine against the current read position.
func (d *Decoder) syncStep() {
	win := toFloat64(d.src.ReadPointer(headerLen))
	cand := evaluateCandidate(win, d.readPos)
	d.stats.CandidatesEvaluated++

	if cand.err < candidatePushThreshold {
		d.fifo.push(cand)
		d.advance(1)
		if d.fifo.len() >= candidateCapacity {
			best, idx := d.fifo.min()
			if idx == 0 && best.err < candidateCommitThreshold {
				// On failure tryCommit has already cleared the FIFO and
				// moved past the false alarm, so there is nothing to evict.
				d.tryCommit(best)
				return
			}
			d.fifo.popFront()
		}
		return
	}

	if d.fifo.len() > 0 {
		if best, _ := d.fifo.min(); best.err < candidateCommitThreshold {
			if d.tryCommit(best) {
				return
			}
		}
	}
	d.fifo.clear()
	d.advance(10)
}

// tryCommit positions the cursor at the candidate's VIS window, decodes it,
// and, on success, promotes the decoder into the DATA state. It reports
// whether the commit succeeded; on failure the FIFO has already been
// cleared and the cursor advanced past the false alarm.
func (d *Decoder) tryCommit(cand candidate) bool {
	target := cand.start + visCommitOffset
	delta := target - d.readPos
	if delta < 0 {
		delta = 0
	}
	d.advance(int(delta))

	visWin := toFloat64(d.src.ReadPointer(visLen))
	vis, ok := decodeVIS(visWin, cand.offset, cand.invert)
	if !ok {
		d.stats.VISParityFailures++
		d.fifo.clear()
		d.advance(10)
		return false
	}

	mode := sstvmode.FromVIS(vis)
	if mode == nil {
		d.stats.ModeNotImplemented++
		d.fifo.clear()
		d.advance(10)
		return false
	}

	if !d.emitSyncAndDescriptor(vis, mode) {
		d.fifo.clear()
		d.advance(10)
		return false
	}

	// Consume the VIS body. When the mode's line sync falls at component 0,
	// leave its pulse unconsumed so the line decoder's first edge search
	// picks it up, rather than rewinding the cursor after the fact.
	syncOffsetSamples := 0
	if mode.LineSyncPosition() == 0 {
		syncOffsetSamples = int(mode.LineSyncDuration() * dsp.SampleRate)
	}
	d.advance(visLen - syncOffsetSamples)

	if d.logger != nil {
		d.logger.Printf("[SSTV] VIS %d decoded: %s (%dx%d)", vis, mode.Name, mode.HorizontalPixels(), mode.VerticalLines())
	}

	d.offset = cand.offset
	d.invert = cand.invert
	d.fifo.clear()
	d.currentLine = 0
	d.lineOffset = 0

	if d.probeOnly {
		// Header decoded and reported; skip straight back to hunting for
		// the next one instead of scanning pixel data.
		d.mode = nil
		d.state = StateSync
		return true
	}

	d.mode = mode
	d.state = StateData
	d.resetColorState()
	return true
}

// emitSyncAndDescriptor writes the 4-byte "SYNC" marker followed by the
// little-endian {vis, pixels, lines} descriptor. Returns false, writing
// nothing, if the sink cannot accept the full 10-byte payload.
func (d *Decoder) emitSyncAndDescriptor(vis uint8, mode *sstvmode.Mode) bool {
	payload := make([]byte, 10)
	copy(payload[0:4], "SYNC")
	binary.LittleEndian.PutUint16(payload[4:6], uint16(vis))
	binary.LittleEndian.PutUint16(payload[6:8], uint16(mode.HorizontalPixels()))
	binary.LittleEndian.PutUint16(payload[8:10], uint16(mode.VerticalLines()))

	if d.dst.Writeable() < len(payload) {
		return false
	}
	d.dst.Write(payload)
	return true
}
