package imaging

import (
	"image"
	"image/color"
)

// Gray is an 8-bit luminance raster stored as float64 for numeric work
type Gray struct {
	Width  int
	Height int
	Pix    []float64 // row-major, len = Width*Height
}

// At returns the luminance at (x, y) relative to the raster origin
func (g *Gray) At(x, y int) float64 {
	return g.Pix[y*g.Width+x]
}

// Grayscale converts img to BT.601 luma with the same fixed-point weights
// OpenCV uses for 8-bit images, so values are integers in [0, 255]
func Grayscale(img image.Image) *Gray {
	b := img.Bounds()
	g := &Gray{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]float64, b.Dx()*b.Dy()),
	}

	i := 0
	switch src := img.(type) {
	case *image.YCbCr:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				yi := src.YOffset(x, y)
				ci := src.COffset(x, y)
				r, gg, bb := color.YCbCrToRGB(src.Y[yi], src.Cb[ci], src.Cr[ci])
				g.Pix[i] = luma(r, gg, bb)
				i++
			}
		}
	case *image.Gray:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				g.Pix[i] = float64(src.GrayAt(x, y).Y)
				i++
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				g.Pix[i] = luma(c.R, c.G, c.B)
				i++
			}
		}
	}

	return g
}

// luma is (R*0.299 + G*0.587 + B*0.114) in 14-bit fixed point with rounding
func luma(r, g, b uint8) float64 {
	const (
		wr    = 4899
		wg    = 9617
		wb    = 1868
		shift = 14
	)
	v := (uint32(r)*wr + uint32(g)*wg + uint32(b)*wb + (1 << (shift - 1))) >> shift
	return float64(v)
}
