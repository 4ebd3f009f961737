package copiclib

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"
)

type FitMode int

const (
	// Scale preserving aspect ratio so the monitor is completely covered,
	// cropping the overflow symmetrically
	FitZoom FitMode = iota
	// Scale each axis independently to exactly the monitor's resolution
	FitStretch
)

var ErrUnknownFit = errors.New("unknown fit mode")
var ErrCountMismatch = errors.New("image count does not match monitor count")
var ErrNoMonitors = errors.New("no active monitors")

func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(s) {
	case "zoom":
		return FitZoom, nil
	case "stretch":
		return FitStretch, nil
	}
	return 0, fmt.Errorf("%w [%s], expected zoom or stretch", ErrUnknownFit, s)
}

func (f FitMode) String() string {
	if f == FitStretch {
		return "stretch"
	}
	return "zoom"
}

// Pair is one source image bound to the monitor it will cover.
// Fit, when set, overrides the fit mode for this monitor only.
type Pair struct {
	Image   image.Image
	Monitor *Monitor
	Fit     *FitMode
}

// PairImages zips images with monitors by position. Both sequences must
// already be in the same order, leftmost monitor first.
func PairImages(images []image.Image, monitors []*Monitor) ([]Pair, error) {
	if len(images) != len(monitors) {
		return nil, fmt.Errorf(
			"%w: %d images for %d monitors", ErrCountMismatch,
			len(images), len(monitors))
	}

	pairs := make([]Pair, len(images))
	for i, img := range images {
		pairs[i] = Pair{Image: img, Monitor: monitors[i]}
	}
	return pairs, nil
}

type ComposeOptions struct {
	Fit        FitMode
	Background color.Color
	Scaler     xdraw.Scaler
}

func (o ComposeOptions) scaler() xdraw.Scaler {
	if o.Scaler != nil {
		return o.Scaler
	}
	return xdraw.ApproxBiLinear
}

func (c *Config) Scaler() xdraw.Scaler {
	if c.HighQuality {
		return xdraw.CatmullRom
	}
	return xdraw.ApproxBiLinear
}

// Compose fits every image onto its monitor and flattens the result into
// a single canvas spanning the bounding box of all monitors. Gaps between
// non-contiguous monitors are filled with the background colour.
func Compose(pairs []Pair, o ComposeOptions) (*image.RGBA, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%w: nothing to compose", ErrNoMonitors)
	}

	width := 0
	height := 0

	for _, p := range pairs {
		m := p.Monitor
		if m.X+m.Width > width {
			width = m.X + m.Width
		}
		if m.Y+m.Height > height {
			height = m.Y + m.Height
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))

	bg := o.Background
	if bg == nil {
		bg = color.Black
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	for _, p := range pairs {
		fit := o.Fit
		if p.Fit != nil {
			fit = *p.Fit
		}

		m := p.Monitor
		dst := image.Rect(m.X, m.Y, m.X+m.Width, m.Y+m.Height)
		if err := fitOnto(canvas, dst, p.Image, fit, o.scaler()); err != nil {
			return nil, err
		}
	}

	return canvas, nil
}

// fitOnto scales src into exactly the dst rectangle of the canvas.
// Zoom crops a centered window out of the source first so the scale is
// uniform; stretch maps the whole source regardless of aspect ratio.
func fitOnto(canvas *image.RGBA, dst image.Rectangle, src image.Image,
	fit FitMode, scaler xdraw.Scaler) error {

	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return fmt.Errorf("empty source image for %dx%d monitor", dst.Dx(), dst.Dy())
	}

	srcRect := sb
	if fit == FitZoom {
		scale := math.Max(
			float64(dst.Dx())/float64(sb.Dx()),
			float64(dst.Dy())/float64(sb.Dy()))

		// Extreme aspect ratios can round the crop window down to
		// nothing, which would leave the monitor showing background
		cw := int(math.Round(float64(dst.Dx()) / scale))
		ch := int(math.Round(float64(dst.Dy()) / scale))
		if cw < 1 {
			cw = 1
		}
		if ch < 1 {
			ch = 1
		}
		if cw > sb.Dx() {
			cw = sb.Dx()
		}
		if ch > sb.Dy() {
			ch = sb.Dy()
		}

		x0 := sb.Min.X + (sb.Dx()-cw)/2
		y0 := sb.Min.Y + (sb.Dy()-ch)/2
		srcRect = image.Rect(x0, y0, x0+cw, y0+ch)
	}

	scaler.Scale(canvas, dst, src, srcRect, xdraw.Src, nil)
	return nil
}

// ParseColour accepts a few common colour names and #rgb/#rrggbb hex.
func ParseColour(s string) (color.Color, error) {
	switch strings.ToLower(s) {
	case "black":
		return color.Black, nil
	case "white":
		return color.White, nil
	case "grey", "gray":
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != len(s) {
		var r, g, b uint64
		var err error
		switch len(hex) {
		case 3:
			r, err = strconv.ParseUint(strings.Repeat(hex[0:1], 2), 16, 8)
			if err == nil {
				g, err = strconv.ParseUint(strings.Repeat(hex[1:2], 2), 16, 8)
			}
			if err == nil {
				b, err = strconv.ParseUint(strings.Repeat(hex[2:3], 2), 16, 8)
			}
		case 6:
			r, err = strconv.ParseUint(hex[0:2], 16, 8)
			if err == nil {
				g, err = strconv.ParseUint(hex[2:4], 16, 8)
			}
			if err == nil {
				b, err = strconv.ParseUint(hex[4:6], 16, 8)
			}
		default:
			err = fmt.Errorf("expected #rgb or #rrggbb")
		}
		if err != nil {
			return nil, fmt.Errorf("invalid colour [%s]: %s", s, err)
		}
		return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
	}

	return nil, fmt.Errorf("unrecognized colour [%s]", s)
}
