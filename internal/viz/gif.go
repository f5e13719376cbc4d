package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/eyespot/internal/eyespot"
)

// labelHeight is the band above the map that holds the frame time.
const labelHeight = 15

// GIFOptions control frame size and speed of an animation.
type GIFOptions struct {
	Scale int // pixels per grid cell
	Delay int // hundredths of a second between frames
	Theme Theme
	Label bool // draw "t=<time>" above each frame
}

func (o GIFOptions) withDefaults() GIFOptions {
	if o.Scale <= 0 {
		o.Scale = 4
	}
	if o.Delay <= 0 {
		o.Delay = 5
	}
	if o.Theme.Name == "" {
		o.Theme = ThemeClassic
	}
	return o
}

// Frame renders one dominant-pigment map as a paletted image. With
// opts.Label the map is shifted down and label is drawn above it.
func Frame(m eyespot.PigmentMap, label string, opts GIFOptions) *image.Paletted {
	opts = opts.withDefaults()
	side := m.N * opts.Scale
	top := 0
	if opts.Label {
		top = labelHeight
	}
	pal := opts.Theme.Palette()
	img := image.NewPaletted(image.Rect(0, 0, side, side+top), pal)
	if opts.Label {
		d := font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(pal[contrastIndex(pal)]),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(2, labelHeight-3),
		}
		d.DrawString(label)
	}
	for r := 0; r < m.N; r++ {
		for c := 0; c < m.N; c++ {
			idx := uint8(m.At(r, c))
			for y := top + r*opts.Scale; y < top+(r+1)*opts.Scale; y++ {
				for x := c * opts.Scale; x < (c+1)*opts.Scale; x++ {
					img.SetColorIndex(x, y, idx)
				}
			}
		}
	}
	return img
}

// contrastIndex picks the palette entry furthest in luminance from the
// background entry 0.
func contrastIndex(pal color.Palette) int {
	luma := func(c color.Color) float64 {
		r, g, b, _ := c.RGBA()
		return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	}
	bg := luma(pal[0])
	best, dist := 0, -1.0
	for i := 1; i < len(pal); i++ {
		if d := math.Abs(luma(pal[i]) - bg); d > dist {
			best, dist = i, d
		}
	}
	return best
}

// EncodeGIF writes the dominant-pigment map at every evaluation time as a
// looping animation.
func EncodeGIF(w io.Writer, sol *eyespot.Solution, opts GIFOptions) error {
	if sol.Len() == 0 {
		return fmt.Errorf("solution has no frames")
	}
	anim := gif.GIF{LoopCount: 0}
	for i := 0; i < sol.Len(); i++ {
		f, err := sol.Fields(i)
		if err != nil {
			return err
		}
		anim.Image = append(anim.Image, Frame(f.Classify(), fmt.Sprintf("t=%g", sol.Times[i]), opts))
		anim.Delay = append(anim.Delay, opts.withDefaults().Delay)
	}
	return gif.EncodeAll(w, &anim)
}

// SaveGIF writes EncodeGIF output to path.
func SaveGIF(path string, sol *eyespot.Solution, opts GIFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeGIF(f, sol, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
