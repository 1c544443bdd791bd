package model

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// flatTopKernel samples exp(-0.5 (x/(size/2))^80) at x = floor(-n/2) ... n/2
// and normalizes it to unit sum. size is the pass band width in samples.
func flatTopKernel(n int, size float64) []float64 {
	half := size / 2.
	start := -((n + 1) / 2)
	kernel := make([]float64, n/2+1-start)
	for i := range kernel {
		kernel[i] = math.Exp(-0.5 * math.Pow(float64(start+i)/half, 80))
	}
	floats.Scale(1./floats.Sum(kernel), kernel)
	return kernel
}

// convolveSame returns the part of the full convolution of signal and kernel
// centered on signal and of the same length.
func convolveSame(signal, kernel []float64) []float64 {
	n, m := len(signal), len(kernel)
	size := 1
	for size < n+m-1 {
		size <<= 1
	}
	a := make([]complex128, size)
	b := make([]complex128, size)
	for i := range signal {
		a[i] = complex(signal[i], 0)
	}
	for i := range kernel {
		b[i] = complex(kernel[i], 0)
	}

	fa, fb := fft.FFT(a), fft.FFT(b)
	for i := range fa {
		fa[i] *= fb[i]
	}
	full := fft.IFFT(fa)

	start := (m - 1) / 2
	same := make([]float64, n)
	for i := range same {
		same[i] = real(full[start+i])
	}
	return same
}
