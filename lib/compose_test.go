package copiclib

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"
)

var red = color.RGBA{R: 0xff, A: 0xff}
var green = color.RGBA{G: 0xff, A: 0xff}
var blue = color.RGBA{B: 0xff, A: 0xff}
var black = color.RGBA{A: 0xff}
var white = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Left half one colour, right half another
func splitImage(w, h int, left, right color.RGBA) *image.RGBA {
	img := solidImage(w, h, left)
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			img.SetRGBA(x, y, right)
		}
	}
	return img
}

func checkPixel(t *testing.T, canvas *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()

	got := canvas.RGBAAt(x, y)
	if got != want {
		t.Fatalf("pixel (%d,%d): expected %v, got %v", x, y, want, got)
	}
}

func mustPair(t *testing.T, images []image.Image, monitors []*Monitor) []Pair {
	t.Helper()

	pairs, err := PairImages(images, monitors)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	return pairs
}

func TestPairImagesCountMismatch(t *testing.T) {
	monitors := []*Monitor{
		{X: 0, Y: 0, Width: 100, Height: 100},
		{X: 100, Y: 0, Width: 100, Height: 100},
	}

	for _, n := range []int{0, 1, 3, 5} {
		images := make([]image.Image, n)
		for i := range images {
			images[i] = solidImage(10, 10, red)
		}

		_, err := PairImages(images, monitors)
		if !errors.Is(err, ErrCountMismatch) {
			t.Fatalf("expected ErrCountMismatch for %d images, got %v", n, err)
		}
	}
}

func TestComposeNothing(t *testing.T) {
	_, err := Compose(nil, ComposeOptions{})
	if !errors.Is(err, ErrNoMonitors) {
		t.Fatalf("expected ErrNoMonitors, got %v", err)
	}
}

// The canonical side-by-side case: two monitors, two matching images,
// stretch is a no-op and the canvas is a simple concatenation.
func TestComposeStretchSideBySide(t *testing.T) {
	monitors, err := ParseXrandr(
		"HDMI-1 connected 1920x1080+0+0\nHDMI-2 connected 1920x1080+1920+0\n")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	images := []image.Image{
		solidImage(1920, 1080, red),
		solidImage(1920, 1080, blue),
	}

	canvas, err := Compose(
		mustPair(t, images, monitors), ComposeOptions{Fit: FitStretch})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	b := canvas.Bounds()
	if b.Dx() != 3840 || b.Dy() != 1080 {
		t.Fatalf("expected 3840x1080 canvas, got %dx%d", b.Dx(), b.Dy())
	}

	checkPixel(t, canvas, 0, 0, red)
	checkPixel(t, canvas, 1919, 1079, red)
	checkPixel(t, canvas, 1920, 0, blue)
	checkPixel(t, canvas, 3839, 1079, blue)
}

// A portrait image zoomed onto a landscape monitor must cover it
// completely, with no background leaking through.
func TestComposeZoomCoversMonitor(t *testing.T) {
	monitors := []*Monitor{{X: 0, Y: 0, Width: 1280, Height: 800}}
	images := []image.Image{solidImage(600, 1200, green)}

	canvas, err := Compose(mustPair(t, images, monitors), ComposeOptions{
		Fit:        FitZoom,
		Background: white,
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	b := canvas.Bounds()
	if b.Dx() != 1280 || b.Dy() != 800 {
		t.Fatalf("expected 1280x800 canvas, got %dx%d", b.Dx(), b.Dy())
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			if canvas.RGBAAt(x, y) != green {
				t.Fatalf("background visible at (%d,%d): %v",
					x, y, canvas.RGBAAt(x, y))
			}
		}
	}
}

// A source a thousand times wider than it is tall still has to cover a
// monitor with the opposite shape; the crop window bottoms out at one
// pixel instead of rounding to nothing.
func TestComposeZoomDegenerateAspect(t *testing.T) {
	monitors := []*Monitor{{X: 0, Y: 0, Width: 1, Height: 1000}}
	images := []image.Image{solidImage(1000, 1, red)}

	canvas, err := Compose(mustPair(t, images, monitors), ComposeOptions{
		Fit:        FitZoom,
		Background: white,
	})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	for y := 0; y < 1000; y++ {
		if canvas.RGBAAt(0, y) != red {
			t.Fatalf("background visible at (0,%d): %v", y, canvas.RGBAAt(0, y))
		}
	}
}

// Zoom crops symmetrically: fitting a wide split image onto a narrow
// monitor keeps the middle of the source.
func TestComposeZoomCentersCrop(t *testing.T) {
	monitors := []*Monitor{{X: 0, Y: 0, Width: 50, Height: 100}}
	images := []image.Image{splitImage(100, 100, red, blue)}

	canvas, err := Compose(
		mustPair(t, images, monitors), ComposeOptions{Fit: FitZoom})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// Source columns 25-75 survive the crop, so the seam stays centered
	checkPixel(t, canvas, 5, 50, red)
	checkPixel(t, canvas, 45, 50, blue)
}

// Stretch ignores aspect ratio: a square source becomes non-square and
// the seam of a split image stays at the halfway point.
func TestComposeStretchDistorts(t *testing.T) {
	monitors := []*Monitor{{X: 0, Y: 0, Width: 200, Height: 50}}
	images := []image.Image{splitImage(100, 100, red, blue)}

	canvas, err := Compose(
		mustPair(t, images, monitors), ComposeOptions{Fit: FitStretch})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	b := canvas.Bounds()
	if b.Dx() != 200 || b.Dy() != 50 {
		t.Fatalf("expected 200x50 canvas, got %dx%d", b.Dx(), b.Dy())
	}

	checkPixel(t, canvas, 10, 25, red)
	checkPixel(t, canvas, 90, 25, red)
	checkPixel(t, canvas, 110, 25, blue)
	checkPixel(t, canvas, 190, 25, blue)
}

// Non-contiguous monitors leave gaps, which are filled with the
// background colour rather than garbage.
func TestComposeBoundingBoxAndBackground(t *testing.T) {
	monitors := []*Monitor{
		{X: 0, Y: 0, Width: 100, Height: 50},
		{X: 150, Y: 20, Width: 100, Height: 80},
	}
	images := []image.Image{
		solidImage(100, 50, red),
		solidImage(100, 80, blue),
	}

	canvas, err := Compose(
		mustPair(t, images, monitors), ComposeOptions{Fit: FitStretch})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	b := canvas.Bounds()
	if b.Dx() != 250 || b.Dy() != 100 {
		t.Fatalf("expected 250x100 canvas, got %dx%d", b.Dx(), b.Dy())
	}

	checkPixel(t, canvas, 50, 25, red)
	checkPixel(t, canvas, 200, 60, blue)
	// The gap between the monitors and the area below the first one
	checkPixel(t, canvas, 125, 50, black)
	checkPixel(t, canvas, 50, 75, black)
}

func TestComposePerMonitorFitOverride(t *testing.T) {
	stretch := FitStretch
	src := splitImage(100, 100, red, blue)

	monitors := []*Monitor{{X: 0, Y: 0, Width: 200, Height: 50}}
	pairs := []Pair{{Image: src, Monitor: monitors[0], Fit: &stretch}}

	canvas, err := Compose(pairs, ComposeOptions{Fit: FitZoom})
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	// Stretched, not zoom-cropped: the seam sits at the halfway point
	checkPixel(t, canvas, 10, 25, red)
	checkPixel(t, canvas, 190, 25, blue)
}

func TestComposeDeterministic(t *testing.T) {
	monitors := []*Monitor{
		{X: 0, Y: 0, Width: 320, Height: 200},
		{X: 320, Y: 0, Width: 256, Height: 256},
	}
	images := []image.Image{
		splitImage(640, 480, red, green),
		splitImage(100, 300, blue, white),
	}

	opts := ComposeOptions{Fit: FitZoom}

	first, err := Compose(mustPair(t, images, monitors), opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	second, err := Compose(mustPair(t, images, monitors), opts)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if !bytes.Equal(first.Pix, second.Pix) {
		t.Fatal("identical inputs produced different canvases")
	}
}

func TestParseFitMode(t *testing.T) {
	cases := map[string]FitMode{
		"zoom":    FitZoom,
		"stretch": FitStretch,
		"Zoom":    FitZoom,
		"STRETCH": FitStretch,
	}

	for in, want := range cases {
		got, err := ParseFitMode(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %s", in, err)
		}
		if got != want {
			t.Fatalf("expected %s for %q, got %s", want, in, got)
		}
	}

	for _, in := range []string{"", "fill", "span", "zoomed"} {
		if _, err := ParseFitMode(in); !errors.Is(err, ErrUnknownFit) {
			t.Fatalf("expected ErrUnknownFit for %q, got %v", in, err)
		}
	}
}

func TestParseColour(t *testing.T) {
	cases := map[string]color.RGBA{
		"black":   black,
		"white":   white,
		"#fff":    white,
		"#000000": black,
		"#336699": {R: 0x33, G: 0x66, B: 0x99, A: 0xff},
	}

	for in, want := range cases {
		c, err := ParseColour(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %s", in, err)
		}

		r, g, b, a := c.RGBA()
		wr, wg, wb, wa := want.RGBA()
		if r != wr || g != wg || b != wb || a != wa {
			t.Fatalf("expected %v for %q, got %v", want, in, c)
		}
	}

	for _, in := range []string{"", "mauve", "#12", "#12345g"} {
		if _, err := ParseColour(in); err == nil {
			t.Fatalf("expected an error for %q", in)
		}
	}
}
