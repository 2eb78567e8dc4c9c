package imaging

import (
	"gonum.org/v1/gonum/stat"
)

// Laplacian applies the 3x3 kernel [0 1 0; 1 -4 1; 0 1 0] with
// reflect-101 borders (gfedcb|abcdefgh|gfedcba) and returns the response
func Laplacian(g *Gray) []float64 {
	out := make([]float64, len(g.Pix))
	if len(g.Pix) == 0 {
		return out
	}

	for y := 0; y < g.Height; y++ {
		up := reflect101(y-1, g.Height)
		down := reflect101(y+1, g.Height)
		for x := 0; x < g.Width; x++ {
			left := reflect101(x-1, g.Width)
			right := reflect101(x+1, g.Width)

			out[y*g.Width+x] = g.At(x, up) + g.At(x, down) +
				g.At(left, y) + g.At(right, y) - 4*g.At(x, y)
		}
	}

	return out
}

// LaplacianVariance is the population variance of the Laplacian response,
// a standard focus/sharpness measure
func LaplacianVariance(g *Gray) float64 {
	if len(g.Pix) == 0 {
		return 0
	}
	return stat.PopVariance(Laplacian(g), nil)
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}
