package silhouette

import (
	"image"
	"image/color"
	"math"
)

const (
	defaultAssetSize = 256
	starPoints       = 5
	starInner        = 0.42
)

// DefaultAsset is the bundled silhouette shown before any upload: a dark
// five-pointed star on a transparent background.
func DefaultAsset() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, defaultAssetSize, defaultAssetSize))
	ink := color.NRGBA{R: 24, G: 20, B: 16, A: 255}
	c := float64(defaultAssetSize) / 2
	outer := c * 0.9

	for y := 0; y < defaultAssetSize; y++ {
		for x := 0; x < defaultAssetSize; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			if insideStar(dx, dy, outer) {
				img.SetNRGBA(x, y, ink)
			}
		}
	}
	return img
}

// insideStar tests a point against a star whose first tip points up.
func insideStar(dx, dy, outer float64) bool {
	r := math.Hypot(dx, dy)
	if r > outer {
		return false
	}
	angle := math.Atan2(dx, -dy)
	sector := 2 * math.Pi / starPoints
	a := math.Mod(angle+2*math.Pi, sector)
	// Distance along the sector from the nearest tip, 0 at a tip, 1 at a valley.
	t := math.Abs(a-sector/2) / (sector / 2)
	t = 1 - t
	limit := outer * (1 - (1-starInner)*t)
	return r <= limit
}
