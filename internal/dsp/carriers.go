package dsp

// SampleRate is the fixed input sample rate this decoder operates at, in Hz.
// The normalized-sample convention (§3 of the spec) is defined relative to
// this rate's Nyquist frequency and nothing in this module resamples, so it
// is a true constant rather than a configuration knob.
const SampleRate = 12000.0

// Nyquist is half SampleRate: normalized samples are raw frequency / Nyquist.
const Nyquist = SampleRate / 2

// Carriers of interest, pre-normalized to the [-1,1]-ish range a
// demodulated, Nyquist-divided sample arrives in.
const (
	C1100 = 1100.0 / Nyquist // VIS data bit: 1
	C1200 = 1200.0 / Nyquist // line/VIS sync, VIS start/stop tone
	C1300 = 1300.0 / Nyquist // VIS data bit: 0
	C1500 = 1500.0 / Nyquist // black
	C1900 = 1900.0 / Nyquist // calibration leader
	C2300 = 2300.0 / Nyquist // white
)

// Normalize converts a raw frequency in Hz to the normalized-sample
// convention used throughout this module.
func Normalize(hz float64) float64 {
	return hz / Nyquist
}
