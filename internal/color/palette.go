package color

import (
	"image"
	"sort"
)

// rgb is an 8-bit color sample.
type rgb struct{ r, g, b uint8 }

// box is a region of color space holding a subset of samples.
type box struct {
	pixels []rgb
}

// quantize reduces img to at most size representative colors using median
// cut. Every step-th pixel is sampled; fully transparent and near-white
// pixels are skipped so backgrounds do not dominate.
func quantize(img image.Image, size, step int) []rgb {
	if step < 1 {
		step = 1
	}
	bounds := img.Bounds()
	samples := make([]rgb, 0, bounds.Dx()*bounds.Dy()/step+1)
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i++
			if i%step != 0 {
				continue
			}
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x7fff {
				continue
			}
			p := rgb{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
			if p.r > 250 && p.g > 250 && p.b > 250 {
				continue
			}
			samples = append(samples, p)
		}
	}
	if len(samples) == 0 {
		return nil
	}

	boxes := []box{{pixels: samples}}
	for len(boxes) < size {
		idx, channel := widestBox(boxes)
		if idx < 0 {
			break
		}
		lo, hi := split(boxes[idx], channel)
		boxes[idx] = lo
		boxes = append(boxes, hi)
	}

	palette := make([]rgb, 0, len(boxes))
	for _, b := range boxes {
		palette = append(palette, b.average())
	}
	return palette
}

// widestBox returns the splittable box with the largest channel range and
// the channel to split on, or -1 when nothing can be split further.
func widestBox(boxes []box) (int, int) {
	best, bestChannel, bestRange := -1, 0, 0
	for i, b := range boxes {
		if len(b.pixels) < 2 {
			continue
		}
		channel, span := b.widestChannel()
		if span > bestRange {
			best, bestChannel, bestRange = i, channel, span
		}
	}
	return best, bestChannel
}

func (b box) widestChannel() (int, int) {
	var lo, hi [3]uint8
	lo = [3]uint8{255, 255, 255}
	for _, p := range b.pixels {
		for c, v := range [3]uint8{p.r, p.g, p.b} {
			if v < lo[c] {
				lo[c] = v
			}
			if v > hi[c] {
				hi[c] = v
			}
		}
	}
	channel, span := 0, 0
	for c := 0; c < 3; c++ {
		if s := int(hi[c]) - int(lo[c]); s > span {
			channel, span = c, s
		}
	}
	return channel, span
}

func split(b box, channel int) (box, box) {
	pixels := b.pixels
	sort.Slice(pixels, func(i, j int) bool {
		return component(pixels[i], channel) < component(pixels[j], channel)
	})
	mid := len(pixels) / 2
	return box{pixels: pixels[:mid]}, box{pixels: pixels[mid:]}
}

func component(p rgb, channel int) uint8 {
	switch channel {
	case 0:
		return p.r
	case 1:
		return p.g
	default:
		return p.b
	}
}

func (b box) average() rgb {
	var r, g, bl int
	for _, p := range b.pixels {
		r += int(p.r)
		g += int(p.g)
		bl += int(p.b)
	}
	n := len(b.pixels)
	return rgb{uint8(r / n), uint8(g / n), uint8(bl / n)}
}

// vibrance scores a color by saturation plus value, both as percentages.
func vibrance(p rgb) float64 {
	r, g, b := float64(p.r)/255, float64(p.g)/255, float64(p.b)/255
	cmax := max(r, g, b)
	cmin := min(r, g, b)
	var s float64
	if cmax > 0 {
		s = (cmax - cmin) / cmax
	}
	return s*100 + cmax*100
}

// mostVibrant returns the palette entry with the highest vibrance. Ties keep
// the earlier entry.
func mostVibrant(palette []rgb) (rgb, bool) {
	var best rgb
	bestScore := 0.0
	found := false
	for _, p := range palette {
		if score := vibrance(p); score > bestScore {
			best, bestScore, found = p, score, true
		}
	}
	return best, found
}
