package copiclib

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/awused/awconf"
)

type AbsolutePath = string
type RelativePath = string

type Config struct {
	OutputDir           string
	LogFile             string
	DatabaseDir         string
	OriginalsDirectory  string
	TempDirectory       string
	ImageFileExtensions []string
	Background          string
	DefaultFit          string
	HighQuality         bool
}

// Per-image overrides for the random command, keyed by the original's
// slash-separated relative path inside OriginalsDirectory
type ImageProps struct {
	Fit string
}

var props map[string]ImageProps
var conf *Config

var tempDir string
var tempErr error
var tempOnce sync.Once

func TempDir() (string, error) {
	c, err := GetConfig()
	if err != nil {
		return "", err
	}

	tempOnce.Do(func() {
		tempDir, tempErr = os.MkdirTemp(c.TempDirectory, "copic")
	})

	return tempDir, tempErr
}

func GetConfig() (*Config, error) {
	if conf != nil {
		return conf, nil
	}

	return nil, fmt.Errorf("Init never called")
}

func GetImageProps(path RelativePath) ImageProps {
	if conf == nil || props == nil {
		return ImageProps{}
	}

	return props[filepath.ToSlash(path)]
}

// Be sure to defer Cleanup() after calling this
func Init() (*Config, error) {
	c := &Config{}

	if err := awconf.LoadConfig("copic", c); err != nil {
		return nil, err
	}

	conf = c
	err := c.validate()
	if err != nil {
		return nil, err
	}

	return c, nil
}

func Cleanup() error {
	// tempDir is private and can't be set outside of this package
	if tempDir != "" {
		return os.RemoveAll(tempDir)
	}
	return nil
}

func (c *Config) validate() error {
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(os.Getenv("HOME"), ".copic")
	}

	fi, err := os.Stat(c.OutputDir)
	if err == nil && !fi.IsDir() {
		return fmt.Errorf("OutputDir [%s] is a regular file", c.OutputDir)
	} else if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(
			"Error calling os.Stat on OutputDir [%s]: %s", c.OutputDir, err)
	}

	if c.TempDirectory != "" {
		fi, err = os.Stat(c.TempDirectory)

		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("TempDirectory [%s] is not a directory", c.TempDirectory)
		}
	}

	if c.DatabaseDir != "" {
		fi, err = os.Stat(c.DatabaseDir)
		if err != nil {
			return fmt.Errorf(
				"Error calling os.Stat on DatabaseDir [%s]: %s", c.DatabaseDir, err)
		}
		if !fi.IsDir() {
			return fmt.Errorf("DatabaseDir [%s] is not a directory", c.DatabaseDir)
		}
	}

	if c.OriginalsDirectory != "" {
		fi, err = os.Stat(c.OriginalsDirectory)
		if err != nil {
			return fmt.Errorf(
				"Error calling os.Stat on OriginalsDirectory [%s]: %s",
				c.OriginalsDirectory, err)
		}
		if !fi.IsDir() {
			return fmt.Errorf(
				"OriginalsDirectory [%s] is not a directory", c.OriginalsDirectory)
		}

		propsPath := filepath.Join(c.OriginalsDirectory, ".properties.toml")
		_, err = os.Stat(propsPath)
		if err == nil {
			_, err = toml.DecodeFile(propsPath, &props)
			if err != nil {
				return err
			}
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("Unexpected error %s when opening [%s]", err, propsPath)
		}
	}

	if len(c.ImageFileExtensions) == 0 {
		c.ImageFileExtensions =
			[]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}
	}

	if c.DefaultFit == "" {
		c.DefaultFit = "zoom"
	}
	if _, err := ParseFitMode(c.DefaultFit); err != nil {
		return fmt.Errorf("Config contains invalid DefaultFit: %s", err)
	}

	if c.Background == "" {
		c.Background = "black"
	}
	if _, err := ParseColour(c.Background); err != nil {
		return fmt.Errorf("Config contains invalid Background: %s", err)
	}

	for p, ip := range props {
		if ip.Fit == "" {
			continue
		}
		if _, err := ParseFitMode(ip.Fit); err != nil {
			return fmt.Errorf(".properties.toml entry [%s]: %s", p, err)
		}
	}

	return nil
}
