package copiclib

import (
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

func isImageFile(extensions []string, path string) bool {
	return lo.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}

// RandomFile picks one image file uniformly from dir, recursively.
// The random source is injected so callers control determinism.
func RandomFile(
	dir string, rng *rand.Rand, extensions []string) (AbsolutePath, error) {

	files := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.Type().IsRegular() && isImageFile(extensions, path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if len(files) == 0 {
		return "", fmt.Errorf("no image files found in [%s]", dir)
	}

	return filepath.Abs(files[rng.Intn(len(files))])
}

// ResolveImageArgs turns each command line argument into an absolute
// image path, resolving directory arguments to one random file each.
func ResolveImageArgs(args []string, rng *rand.Rand) ([]AbsolutePath, error) {
	c, err := GetConfig()
	if err != nil {
		return nil, err
	}

	paths := make([]AbsolutePath, 0, len(args))
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			return nil, err
		}

		if fi.IsDir() {
			p, err := RandomFile(a, rng, c.ImageFileExtensions)
			if err != nil {
				return nil, err
			}
			paths = append(paths, p)
			continue
		}

		p, err := filepath.Abs(a)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}

// GetAllOriginals lists every image under OriginalsDirectory as a
// relative path, the form the persistent picker stores.
func GetAllOriginals() ([]RelativePath, error) {
	c, err := GetConfig()
	if err != nil {
		return nil, err
	}
	if c.OriginalsDirectory == "" {
		return nil, fmt.Errorf("Config missing OriginalsDirectory")
	}

	originals := []RelativePath{}
	err = filepath.Walk(
		c.OriginalsDirectory,
		func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !strings.HasPrefix(path, c.OriginalsDirectory) {
				return fmt.Errorf("Unexpected path [%s]", path)
			}

			if f.Mode().IsRegular() && isImageFile(c.ImageFileExtensions, path) {
				rel := strings.TrimPrefix(path, c.OriginalsDirectory)
				originals = append(originals, strings.TrimPrefix(rel, string(filepath.Separator)))
			}

			return nil
		})
	if err != nil {
		return nil, err
	}

	return originals, nil
}

func GetFullInputPath(relPath RelativePath) (AbsolutePath, error) {
	c, err := GetConfig()
	if err != nil {
		return "", err
	}

	return filepath.Abs(filepath.Join(c.OriginalsDirectory, relPath))
}
