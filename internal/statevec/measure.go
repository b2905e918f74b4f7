package statevec

import "math"

// Rand is the uniform source consumed by measurement and sampling.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// MeasureQubit performs a projective measurement of qubit q in the
// computational basis, collapsing v in place, and returns the outcome.
//
// The outcome is 0 iff the draw is below p0. Amplitudes inconsistent with
// the outcome are zeroed and survivors are rescaled by 1/√p. A zero-
// probability outcome cannot be drawn with a well-formed source; if it is,
// survivors are left unscaled.
func (v *Vector) MeasureQubit(q int, r Rand) int {
	mask := v.Mask(q)

	p0 := 0.0
	for i, a := range v.Amplitudes {
		if i&mask == 0 {
			p0 += real(a)*real(a) + imag(a)*imag(a)
		}
	}

	outcome := 1
	p := 1 - p0
	if r.Float64() < p0 {
		outcome = 0
		p = p0
	}

	scale := complex(1, 0)
	if p > 0 {
		scale = complex(1/math.Sqrt(p), 0)
	}

	for i := range v.Amplitudes {
		bit := 0
		if i&mask != 0 {
			bit = 1
		}
		if bit != outcome {
			v.Amplitudes[i] = 0
			continue
		}
		v.Amplitudes[i] *= scale
	}
	return outcome
}

// Sample draws shots basis indices from probs using its cumulative
// distribution: each draw selects the first bucket whose running total
// exceeds the uniform value, falling back to index 0.
func Sample(probs []float64, shots int, r Rand) []int {
	cum := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cum[i] = total
	}

	out := make([]int, shots)
	for s := range out {
		u := r.Float64()
		out[s] = sampleIndex(cum, u)
	}
	return out
}

// sampleIndex returns the first i with cum[i] > u, or 0.
func sampleIndex(cum []float64, u float64) int {
	lo, hi := 0, len(cum)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if cum[mid] > u {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == len(cum) {
		return 0
	}
	return lo
}
