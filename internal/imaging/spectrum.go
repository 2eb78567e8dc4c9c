package imaging

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spectrum is a 2D magnitude spectrum with the zero frequency at the center
type Spectrum struct {
	Width     int
	Height    int
	Magnitude []float64 // row-major
}

// MagnitudeSpectrum computes |FFT2(g)| and shifts the DC component to the
// center, matching numpy's fftshift(fft2(x))
func MagnitudeSpectrum(g *Gray) *Spectrum {
	w, h := g.Width, g.Height
	s := &Spectrum{Width: w, Height: h}
	if w == 0 || h == 0 {
		return s
	}

	data := make([]complex128, w*h)
	for i, v := range g.Pix {
		data[i] = complex(v, 0)
	}

	rowFFT := fourier.NewCmplxFFT(w)
	for y := 0; y < h; y++ {
		row := data[y*w : (y+1)*w]
		rowFFT.Coefficients(row, row)
	}

	colFFT := fourier.NewCmplxFFT(h)
	col := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = data[y*w+x]
		}
		colFFT.Coefficients(col, col)
		for y := 0; y < h; y++ {
			data[y*w+x] = col[y]
		}
	}

	s.Magnitude = make([]float64, w*h)
	for y := 0; y < h; y++ {
		sy := (y + h/2) % h
		for x := 0; x < w; x++ {
			sx := (x + w/2) % w
			s.Magnitude[sy*w+sx] = cmplx.Abs(data[y*w+x])
		}
	}

	return s
}

// MaxMean returns the maximum and the arithmetic mean of the magnitudes
func (s *Spectrum) MaxMean() (float64, float64) {
	if len(s.Magnitude) == 0 {
		return 0, 0
	}

	return floats.Max(s.Magnitude), stat.Mean(s.Magnitude, nil)
}
