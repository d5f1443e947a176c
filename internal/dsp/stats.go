// Package dsp provides the windowed signal statistics the sync detector and
// line decoder use to turn a run of normalized samples into a mean level and
// a measure of how flat that run is.
package dsp

import "gonum.org/v1/gonum/stat"

// StdDev returns the arithmetic mean and the sample standard deviation
// (divisor len-1) of samples[:len]. Used both to estimate the DC offset of a
// nominally flat tone (mean ~= carrier + offset) and to judge how flat it
// actually is (low deviation implies a clean tone).
func StdDev(samples []float64, length int) (mean, deviation float64) {
	return stat.MeanStdDev(samples[:length], nil)
}

// MeanAbsDeviation returns the mean of |s - target - offset| over samples,
// used for the windowed error-around-target case during offset-free
// candidate evaluation.
func MeanAbsDeviation(samples []float64, target, offset float64) float64 {
	sum := 0.0
	for _, s := range samples {
		d := s - target - offset
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum / float64(len(samples))
}
