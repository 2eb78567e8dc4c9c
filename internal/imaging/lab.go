package imaging

import (
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// AChannelHistogram converts every pixel to CIE L*a*b* (D65, sRGB input)
// and returns a 256-bin histogram of the red-green channel in its 8-bit
// encoding a8 = a* + 128, saturated to [0, 255]
func AChannelHistogram(img image.Image) [256]float64 {
	var hist [256]float64
	b := img.Bounds()

	// Faces and backgrounds repeat colors heavily; memoize the conversion
	cache := make(map[uint32]uint8, 4096)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)

			bin, ok := cache[key]
			if !ok {
				bin = aChannel8(c.R, c.G, c.B)
				cache[key] = bin
			}
			hist[bin]++
		}
	}

	return hist
}

// aChannel8 returns the 8-bit encoded a* value of an sRGB color
func aChannel8(r, g, b uint8) uint8 {
	col := colorful.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
	}
	// go-colorful scales a* by 1/100
	_, a, _ := col.Lab()

	v := math.Round(a*100 + 128)
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return uint8(v)
	}
}

// BandFraction returns the share of histogram mass in bins [lo, hi)
func BandFraction(hist [256]float64, lo, hi int) float64 {
	if lo < 0 {
		lo = 0
	}
	if hi > len(hist) {
		hi = len(hist)
	}

	var total, band float64
	for i, v := range hist {
		total += v
		if i >= lo && i < hi {
			band += v
		}
	}

	if total == 0 {
		return 0
	}
	return band / total
}
