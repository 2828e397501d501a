package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// FFT is a radix-2 transform; len(data) must be a power of two.
func FFT(data []float64) ([]complex128, error) {
	n := len(data)
	if n&(n-1) != 0 {
		return nil, fmt.Errorf("fft length %d is not a power of 2: %w", n, dynamo.ErrParameterBounds)
	}
	return fft(data), nil
}

func fft(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

func PowerSpectrum(data []float64) ([]float64, error) {
	f, err := FFT(data)
	if err != nil {
		return nil, err
	}
	ps := make([]float64, len(f)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps, nil
}

// DominantPeriod estimates the strongest period in a series sampled every
// spacing steps. It uses the longest power-of-two prefix with the mean
// removed, and reports false when no oscillation is found.
func DominantPeriod(series []float64, spacing float64) (float64, bool) {
	n := 1
	for n*2 <= len(series) {
		n *= 2
	}
	if n < 4 {
		return 0, false
	}

	mean := 0.0
	for _, v := range series[:n] {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series[:n] {
		centered[i] = v - mean
	}

	ps, err := PowerSpectrum(centered)
	if err != nil {
		return 0, false
	}

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] < 1e-9 {
		return 0, false
	}
	return float64(n) / float64(peak) * spacing, true
}
