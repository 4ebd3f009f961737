package main

import (
	"errors"
	"fmt"
	"image"
	"math/rand"
	"time"

	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

const fit = "fit"
const out = "out"
const noSet = "no-set"

func composeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    fit,
			Aliases: []string{"f"},
			Usage:   "Fit mode applied to every monitor: zoom or stretch",
		},
		&cli.StringFlag{
			Name:    out,
			Aliases: []string{"o"},
			Usage:   "Write the composed wallpaper to FILE instead of OutputDir",
		},
		&cli.BoolFlag{
			Name:  noSet,
			Usage: "Compose and write the wallpaper without applying it",
		},
	}
}

// The default action: one image (or directory) per monitor, supplied
// leftmost to rightmost.
func composeAction(c *cli.Context) error {
	if c.NArg() == 0 {
		cli.ShowAppHelpAndExit(c, 1)
	}

	conf, err := lib.GetConfig()
	checkErr(err)

	fitMode, err := fitModeFromFlag(c, conf)
	checkErr(err)

	monitors, err := lib.GetMonitors()
	checkErr(err)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	paths, err := lib.ResolveImageArgs(c.Args().Slice(), rng)
	checkErr(err)

	err = lib.AssignWallpapers(monitors, paths)
	checkErr(err)

	pairs, err := lib.LoadPairs(monitors)
	checkErr(err)

	canvas, err := composeCanvas(pairs, fitMode, conf)
	checkErr(err)

	outFile := c.String(out)
	if outFile == "" {
		outFile, err = lib.NextOutputFile()
		checkErr(err)
	}

	err = lib.WriteImage(outFile, canvas)
	checkErr(err)

	if c.Bool(noSet) {
		fmt.Println(outFile)
		return nil
	}

	return lib.SetWallpaper(monitors, outFile)
}

func fitModeFromFlag(c *cli.Context, conf *lib.Config) (lib.FitMode, error) {
	s := c.String(fit)
	if s == "" {
		s = conf.DefaultFit
	}
	return lib.ParseFitMode(s)
}

func composeCanvas(
	pairs []lib.Pair, fitMode lib.FitMode, conf *lib.Config) (
	image.Image, error) {

	bg, err := lib.ParseColour(conf.Background)
	if err != nil {
		return nil, err
	}

	return lib.Compose(pairs, lib.ComposeOptions{
		Fit:        fitMode,
		Background: bg,
		Scaler:     conf.Scaler(),
	})
}

func requireArgs(c *cli.Context, msg string) {
	if c.NArg() == 0 {
		checkErr(errors.New(msg))
	}
}
