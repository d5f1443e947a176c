package decoder

import (
	"math"

	"github.com/kb4yz/sstvdemod/internal/dsp"
)

// edgeBoxcar is the width, in samples, of the window used to classify a run
// of samples as "above the sync threshold" when searching for a line- or
// component-sync edge.
const edgeBoxcar = 50

// edgeMajority is how many of the boxcar's samples must read above
// threshold before an edge search commits to that position.
const edgeMajority = 25

// syncThreshold is the corrected-sample level a sync pulse's trailing edge
// must cross: 100Hz above the 1200Hz sync tone.
const syncThreshold = dsp.C1200 + 100.0/dsp.Nyquist

// edgeSearch looks for the end of a 1200Hz sync pulse of the given nominal
// duration, scanning from 90% to 150% of it. It commits to the first
// position whose trailing 50-sample window is majority above threshold,
// advancing the cursor there; failing that, it falls back to advancing by
// exactly the nominal duration.
func (d *Decoder) edgeSearch(nominalDuration float64) {
	nominalSamples := nominalDuration * dsp.SampleRate
	start := int(0.9 * nominalSamples)
	limit := int(1.5 * nominalSamples)

	need := limit + edgeBoxcar
	if need > d.src.Available() {
		need = d.src.Available()
	}
	peek := d.src.ReadPointer(need)

	for pos := start; pos+edgeBoxcar <= len(peek); pos++ {
		above := 0
		for j := 0; j < edgeBoxcar; j++ {
			v := float64(d.invert)*float64(peek[pos+j]) - d.offset
			if v > syncThreshold {
				above++
			}
		}
		if above > edgeMajority {
			d.advance(pos)
			return
		}
	}
	d.advance(int(math.Round(nominalSamples)))
}

// samplePixels scans component i across the full line width, returning one
// 0-255 byte per pixel. The carried-over lineOffset residual keeps the
// running sample/pixel ratio from drifting as components divide unevenly
// into samples.
func (d *Decoder) samplePixels(i int) []uint8 {
	m := d.mode
	compSamples := m.ComponentDuration(i) * dsp.SampleRate
	pixels := m.HorizontalPixels()
	samplesPerPixel := compSamples / float64(pixels)

	need := int(compSamples) + 2
	if need > d.src.Available() {
		need = d.src.Available()
	}
	peek := d.src.ReadPointer(need)

	out := make([]uint8, pixels)
	for k := 0; k < pixels; k++ {
		start := int(float64(k) * samplesPerPixel)
		count := int(samplesPerPixel)
		if count < 1 {
			count = 1
		}
		sum := 0.0
		n := 0
		for j := 0; j < count; j++ {
			idx := start + j
			if idx >= len(peek) {
				break
			}
			sum += float64(peek[idx])
			n++
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		corrected := float64(d.invert)*mean - d.offset
		out[k] = mapSampleToByte(corrected)
	}

	advance := compSamples + d.lineOffset
	n := int(advance)
	d.lineOffset = advance - float64(n)
	d.advance(n)
	return out
}

// mapSampleToByte linearly maps a corrected sample from [C1500, C2300] onto
// [0, 255], clamping outside that range.
func mapSampleToByte(corrected float64) uint8 {
	if corrected <= dsp.C1500 {
		return 0
	}
	if corrected >= dsp.C2300 {
		return 255
	}
	frac := (corrected - dsp.C1500) / (dsp.C2300 - dsp.C1500)
	return uint8(math.Round(frac * 255))
}

// dataStep scans one physical line: a sync pulse and componentCount
// component scans, then hands the raw per-component pixel rows to the
// color converter. It advances currentLine and falls back to the SYNC
// state once the mode's full vertical line count has been produced.
func (d *Decoder) dataStep() {
	m := d.mode
	raw := make([][]uint8, m.ComponentCount())

	for i := 0; i < m.ComponentCount(); i++ {
		if i == m.LineSyncPosition() {
			d.edgeSearch(m.LineSyncDuration())
		}
		if m.HasComponentSync() {
			if i > 0 {
				d.edgeSearch(m.ComponentSyncDuration(i))
			}
		} else if dur := m.ComponentSyncDuration(i); dur > 0 {
			d.advance(int(dur * dsp.SampleRate))
		}

		raw[i] = d.samplePixels(i)
	}

	d.emitLine(raw)

	d.currentLine += m.LinesPerLineSync()
	if d.currentLine >= m.VerticalLines() {
		d.stats.ImagesCompleted++
		if d.logger != nil {
			d.logger.Printf("[SSTV] image complete: %s", m.Name)
		}
		d.mode = nil
		d.currentLine = 0
		d.lineOffset = 0
		d.state = StateSync
	}
}
