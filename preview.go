package main

import (
	"path/filepath"

	lib "github.com/ccrippey/copic/lib"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
)

func previewCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "preview"
	cmd.Usage = "Preview a single wallpaper on every monitor"
	cmd.ArgsUsage = "FILE"
	cmd.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    fit,
			Aliases: []string{"f"},
			Usage:   "Fit mode applied to every monitor: zoom or stretch",
		},
	}

	cmd.Action = previewAction

	return cmd
}

func previewAction(c *cli.Context) error {
	requireArgs(c, "Missing input file")

	w, err := filepath.Abs(c.Args().First())
	checkErr(err)

	conf, err := lib.GetConfig()
	checkErr(err)

	fitMode, err := fitModeFromFlag(c, conf)
	checkErr(err)

	monitors, err := lib.GetMonitors()
	checkErr(err)

	paths := lo.Map(monitors, func(m *lib.Monitor, _ int) lib.AbsolutePath {
		return w
	})

	err = lib.AssignWallpapers(monitors, paths)
	checkErr(err)

	pairs, err := lib.LoadPairs(monitors)
	checkErr(err)

	canvas, err := composeCanvas(pairs, fitMode, conf)
	checkErr(err)

	// Previews are ephemeral, Cleanup removes them on exit
	outFile, err := lib.NextTempFile()
	checkErr(err)

	err = lib.WriteImage(outFile, canvas)
	checkErr(err)

	return lib.SetWallpaper(monitors, outFile)
}
