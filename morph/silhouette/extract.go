package silhouette

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gekko3d/lumen/morph/core"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrDecode       = errors.New("silhouette: image could not be decoded")
	ErrNoCandidates = errors.New("silhouette: no candidate pixels")
)

// Logger is the subset of the engine logger the extractor reports through.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
}

type Params struct {
	// WorkingSize bounds the longest side of the analysed raster.
	WorkingSize int
	// MaxPixels caps width*height of an encoded image; larger ones are not decoded.
	MaxPixels int64
	// AlphaThreshold is the minimum 8-bit alpha of a visible pixel.
	AlphaThreshold uint8
	// DarkThreshold: visible pixels with luma below it are ink.
	DarkThreshold float32
	// EdgeThreshold: luma step to the right or bottom neighbour that marks an edge.
	EdgeThreshold float32

	Scale       float32
	YOffset     float32
	DepthJitter float32
}

func DefaultParams() Params {
	return Params{
		WorkingSize:    200,
		MaxPixels:      40_000_000,
		AlphaThreshold: 128,
		DarkThreshold:  0.45,
		EdgeThreshold:  0.18,
		Scale:          9,
		YOffset:        1.2,
		DepthJitter:    0.6,
	}
}

// Extractor turns raster images into point sets for the image configuration.
type Extractor struct {
	Params Params
	Log    Logger
	// NewRand supplies the sampling source of one extraction.
	NewRand func() core.Rand
}

// Extract decodes data and returns 3*targetCount floats. Every failure path
// still returns a zero buffer of that length alongside the error.
func (e *Extractor) Extract(ctx context.Context, data []byte, targetCount int) ([]float32, error) {
	out := zeroBuffer(targetCount)
	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		e.warnf("decode failed (%d bytes): %v", len(data), err)
		return out, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if limit := e.Params.MaxPixels; limit > 0 && int64(hdr.Width)*int64(hdr.Height) > limit {
		e.warnf("refusing %dx%d image, over %d pixels", hdr.Width, hdr.Height, limit)
		return out, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, hdr.Width, hdr.Height, limit)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		e.warnf("decode failed (%d bytes): %v", len(data), err)
		return out, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	e.debugf("decoded %s image %v", format, img.Bounds().Size())
	return e.ExtractImage(ctx, img, targetCount)
}

// ExtractImage runs the analysis on an already decoded image.
func (e *Extractor) ExtractImage(ctx context.Context, img image.Image, targetCount int) ([]float32, error) {
	out := zeroBuffer(targetCount)
	if targetCount <= 0 {
		return out, nil
	}
	if img == nil {
		return out, ErrDecode
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	raster := downsample(img, e.Params.WorkingSize)
	cands := e.Candidates(raster)
	if len(cands) == 0 {
		e.warnf("no ink or edge pixels in %v image, keeping fallback", raster.Bounds().Size())
		return out, ErrNoCandidates
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	rng := e.rand()
	b := raster.Bounds()
	w, h := float32(b.Dx()), float32(b.Dy())
	span := max(w, h)
	for i := 0; i < targetCount; i++ {
		c := cands[rng.Intn(len(cands))]
		// Normalise around the centre; the longer side spans [-0.5, 0.5].
		nx := (float32(c.X) + 0.5 - w/2) / span
		ny := (float32(c.Y) + 0.5 - h/2) / span
		j := 3 * i
		out[j] = nx * e.Params.Scale
		out[j+1] = -ny*e.Params.Scale + e.Params.YOffset
		out[j+2] = (rng.Float32() - 0.5) * e.Params.DepthJitter
	}
	e.debugf("sampled %d points from %d candidates", targetCount, len(cands))
	return out, nil
}

// Candidates returns the ink and edge pixels of raster in scan order.
func (e *Extractor) Candidates(raster *image.NRGBA) []image.Point {
	b := raster.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	luma := make([]float32, w*h)
	// Luma over black: a transparent neighbour reads 0, as on a cleared canvas.
	flat := make([]float32, w*h)
	visible := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := raster.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := raster.Pix[o : o+4 : o+4]
			i := y*w + x
			visible[i] = px[3] >= e.Params.AlphaThreshold
			luma[i] = Luma(px[0], px[1], px[2])
			flat[i] = luma[i] * float32(px[3]) / 255
		}
	}

	var cands []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			// Only the classified pixel is alpha gated; neighbours are
			// compared whatever their alpha.
			if !visible[i] {
				continue
			}
			ink := luma[i] < e.Params.DarkThreshold
			if !ink && x+1 < w {
				ink = abs32(flat[i]-flat[i+1]) > e.Params.EdgeThreshold
			}
			if !ink && y+1 < h {
				ink = abs32(flat[i]-flat[i+w]) > e.Params.EdgeThreshold
			}
			if ink {
				cands = append(cands, image.Pt(x, y))
			}
		}
	}
	return cands
}

// Luma is the Rec. 601 weighted luminance of an 8-bit colour, in [0,1].
func Luma(r, g, b uint8) float32 {
	return (0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)) / 255
}

// downsample scales img so its longest side is at most size, preserving the
// aspect ratio, and returns it as non-premultiplied RGBA.
func downsample(img image.Image, size int) *image.NRGBA {
	src := img.Bounds()
	w, h := src.Dx(), src.Dy()
	if size > 0 && max(w, h) > size {
		if w >= h {
			h = max(1, h*size/w)
			w = size
		} else {
			w = max(1, w*size/h)
			h = size
		}
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, src, draw.Src, nil)
	return dst
}

func (e *Extractor) rand() core.Rand {
	if e.NewRand != nil {
		return e.NewRand()
	}
	return core.NewRand(core.DeriveSeed(0, 0))
}

func (e *Extractor) debugf(format string, args ...any) {
	if e.Log != nil {
		e.Log.Debugf(format, args...)
	}
}

func (e *Extractor) warnf(format string, args ...any) {
	if e.Log != nil {
		e.Log.Warnf(format, args...)
	}
}

func zeroBuffer(targetCount int) []float32 {
	return make([]float32, 3*max(targetCount, 0))
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
