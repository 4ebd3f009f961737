package main

import (
	"errors"
	"log"

	"github.com/awused/go-strpick/persistent"
	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

func randomCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "random"
	cmd.Usage = "Randomly select a wallpaper for each monitor from " +
		"OriginalsDirectory, avoiding recent repeats"
	cmd.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    fit,
			Aliases: []string{"f"},
			Usage:   "Fit mode applied to every monitor: zoom or stretch",
		},
	}

	cmd.Action = randomAction

	return cmd
}

func randomAction(c *cli.Context) error {
	conf, err := lib.GetConfig()
	checkErr(err)

	if conf.DatabaseDir == "" || conf.OriginalsDirectory == "" {
		checkErr(errors.New(
			"The random command requires DatabaseDir and OriginalsDirectory" +
				" in the config"))
	}

	fitMode, err := fitModeFromFlag(c, conf)
	checkErr(err)

	picker, err := persistent.NewPicker(conf.DatabaseDir)
	checkErr(err)
	defer picker.Close()

	monitors, err := lib.GetMonitors()
	checkErr(err)

	originals, err := lib.GetAllOriginals()
	checkErr(err)

	err = picker.AddAll(originals)
	checkErr(err)

	sz, err := picker.Size()
	checkErr(err)
	if sz == 0 {
		log.Fatal("No wallpapers present in OriginalsDirectory")
	}

	relPaths, err := picker.TryUniqueN(len(monitors))
	checkErr(err)

	paths := make([]lib.AbsolutePath, 0, len(relPaths))
	for _, relPath := range relPaths {
		absPath, err := lib.GetFullInputPath(relPath)
		checkErr(err)
		paths = append(paths, absPath)
	}

	err = lib.AssignWallpapers(monitors, paths)
	checkErr(err)

	pairs, err := lib.LoadPairs(monitors)
	checkErr(err)

	for i, relPath := range relPaths {
		if props := lib.GetImageProps(relPath); props.Fit != "" {
			f, err := lib.ParseFitMode(props.Fit)
			checkErr(err)
			pairs[i].Fit = &f
		}
	}

	canvas, err := composeCanvas(pairs, fitMode, conf)
	checkErr(err)

	outFile, err := lib.NextOutputFile()
	checkErr(err)

	err = lib.WriteImage(outFile, canvas)
	checkErr(err)

	return lib.SetWallpaper(monitors, outFile)
}
