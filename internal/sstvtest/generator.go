// Package sstvtest builds synthetic normalized-sample streams encoding a
// calibration header, VIS code, and image data, for exercising the decoder
// end to end without a recorded audio fixture.
package sstvtest

import (
	"math/bits"

	"github.com/kb4yz/sstvdemod/internal/dsp"
	"github.com/kb4yz/sstvdemod/internal/sstvmode"
)

// sample returns the raw normalized sample that, once the decoder applies
// its invert/offset correction (corrected = invert*s - offset), reads back
// as targetNormalized.
func sample(targetNormalized, offset float64, invert int) float32 {
	return float32(float64(invert) * (targetNormalized + offset))
}

// Tone generates n samples of a constant normalized frequency.
func Tone(targetNormalized, offset float64, invert int, n int) []float32 {
	out := make([]float32, n)
	s := sample(targetNormalized, offset, invert)
	for i := range out {
		out[i] = s
	}
	return out
}

// ByteToNormalized inverts mapSampleToByte: the normalized frequency a
// pixel byte (0-255) is sampled at.
func ByteToNormalized(v uint8) float64 {
	return dsp.C1500 + (float64(v)/255.0)*(dsp.C2300-dsp.C1500)
}

// Header builds the 7320-sample calibration header: 300ms @1900Hz, 10ms
// @1200Hz, 300ms @1900Hz.
func Header(offset float64, invert int) []float32 {
	out := make([]float32, 0, 7320)
	out = append(out, Tone(dsp.C1900, offset, invert, 3600)...)
	out = append(out, Tone(dsp.C1200, offset, invert, 120)...)
	out = append(out, Tone(dsp.C1900, offset, invert, 3600)...)
	return out
}

// VIS builds the 3600-sample, 10-tile VIS code: a 1200Hz start bit, 7
// LSB-first data bits (1100Hz=1, 1300Hz=0), an even-parity bit, and a
// 1200Hz stop bit.
func VIS(vis uint8, offset float64, invert int) []float32 {
	out := make([]float32, 0, 3600)
	out = append(out, Tone(dsp.C1200, offset, invert, 360)...) // start

	for i := 0; i < 7; i++ {
		bit := (vis>>uint(i))&1 != 0
		out = append(out, Tone(bitTone(bit), offset, invert, 360)...)
	}

	parity := bits.OnesCount8(vis)%2 == 1
	out = append(out, Tone(bitTone(parity), offset, invert, 360)...)
	out = append(out, Tone(dsp.C1200, offset, invert, 360)...) // stop
	return out
}

func bitTone(bit bool) float64 {
	if bit {
		return dsp.C1100
	}
	return dsp.C1300
}

// LineSync builds a duration-second 1200Hz sync pulse.
func LineSync(duration, offset float64, invert int) []float32 {
	return Tone(dsp.C1200, offset, invert, int(duration*dsp.SampleRate))
}

// Filler builds a duration-second constant-frequency pulse for
// fixed-delay component separators, whose content the decoder never reads.
func Filler(duration, offset float64, invert int) []float32 {
	return Tone(dsp.C1500, offset, invert, int(duration*dsp.SampleRate))
}

// Component builds one component's full-width scan from a row of 0-255
// pixel bytes, holding each pixel's frequency for its share of the
// component's nominal duration.
//
// carryIn/carryOut mirror the decoder's own lineOffset bookkeeping
// (samplePixels in line.go): the nominal sample count per component is
// fractional, so the emitted sample count is floor(nominal+carryIn) and
// the leftover fraction is threaded into the next component, keeping the
// generated stream's component boundaries exactly where the decoder's
// cursor will land after each advance.
func Component(pixels []uint8, compDur, offset float64, invert int, carryIn float64) (out []float32, carryOut float64) {
	nominal := compDur * dsp.SampleRate
	n := len(pixels)
	spp := nominal / float64(n)

	total := int(nominal + carryIn)
	carryOut = nominal + carryIn - float64(total)

	out = make([]float32, total)
	for i := 0; i < total; i++ {
		k := int(float64(i) / spp)
		if k >= n {
			k = n - 1
		}
		out[i] = sample(ByteToNormalized(pixels[k]), offset, invert)
	}
	return out, carryOut
}

// RowSource supplies the desired component pixel rows for one physical
// line of a synthetic image.
type RowSource func(physicalLine, component int) []uint8

// Image assembles a full header + VIS + image sample stream for mode,
// calling rows for each physical line's component pixel data, following
// the same per-line, per-component ordering the decoder's dataStep uses.
func Image(mode *sstvmode.Mode, offset float64, invert int, rows RowSource) []float32 {
	out := append([]float32{}, Header(offset, invert)...)
	out = append(out, VIS(mode.VIS, offset, invert)...)

	var carry float64
	physicalLines := mode.VerticalLines() / mode.LinesPerLineSync()
	for line := 0; line < physicalLines; line++ {
		for i := 0; i < mode.ComponentCount(); i++ {
			if i == mode.LineSyncPosition() {
				out = append(out, LineSync(mode.LineSyncDuration(), offset, invert)...)
			}
			if mode.HasComponentSync() {
				if i > 0 {
					out = append(out, LineSync(mode.ComponentSyncDuration(i), offset, invert)...)
				}
			} else if dur := mode.ComponentSyncDuration(i); dur > 0 {
				out = append(out, Filler(dur, offset, invert)...)
			}
			var comp []float32
			comp, carry = Component(rows(line, i), mode.ComponentDuration(i), offset, invert, carry)
			out = append(out, comp...)
		}
	}
	return out
}
