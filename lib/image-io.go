package copiclib

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// BMP takes a lot of space but PNG takes non-trivial CPU time, and the
// output file is consumed by the desktop immediately
const outputFormat = "bmp"

func OpenImage(path AbsolutePath) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding [%s]: %w", path, err)
	}

	return img, nil
}

// AssignWallpapers binds one source path to each monitor, in the order
// both sequences were supplied: leftmost monitor first.
func AssignWallpapers(monitors []*Monitor, paths []AbsolutePath) error {
	if len(paths) != len(monitors) {
		return fmt.Errorf(
			"%w: %d images for %d monitors", ErrCountMismatch,
			len(paths), len(monitors))
	}

	for i, m := range monitors {
		m.Wallpaper = paths[i]
	}
	return nil
}

// LoadPairs decodes every monitor's assigned wallpaper.
func LoadPairs(monitors []*Monitor) ([]Pair, error) {
	pairs := make([]Pair, len(monitors))
	for i, m := range monitors {
		if m.Wallpaper == "" {
			return nil, fmt.Errorf(
				"no wallpaper assigned to monitor %dx%d+%d+%d",
				m.Width, m.Height, m.X, m.Y)
		}

		img, err := OpenImage(m.Wallpaper)
		if err != nil {
			return nil, err
		}
		pairs[i] = Pair{Image: img, Monitor: m}
	}

	return pairs, nil
}

// WriteImage encodes img based on the output path's extension: PNG for
// .png, BMP for everything else.
func WriteImage(path AbsolutePath, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".png") {
		err = png.Encode(f, img)
	} else {
		err = bmp.Encode(f, img)
	}

	closeErr := f.Close()
	if err != nil {
		return fmt.Errorf("encoding [%s]: %w", path, err)
	}
	return closeErr
}
