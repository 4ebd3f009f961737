package main

import (
	"log"
	"os"

	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

func main() {
	defer lib.Cleanup()

	app := cli.NewApp()
	app.Name = "copic"
	app.Usage = "Compose one image per monitor into a single spanned wallpaper"
	app.ArgsUsage = "IMAGE_OR_DIR [IMAGE_OR_DIR ...]"
	app.Flags = composeFlags()
	app.Action = composeAction
	app.Before = beforeFunc
	app.Commands = []*cli.Command{
		previewCommand(),
		randomCommand(),
		interactiveCommand(),
	}

	err := app.Run(os.Args)
	checkErr(err)
}

func beforeFunc(ctxt *cli.Context) error {
	c, err := lib.Init()
	checkErr(err)

	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Error opening log file: %v", err)
		}
		// Left open for the life of the process
		log.SetOutput(f)
	}
	return nil
}

func checkErr(err error) {
	if err != nil {
		log.Println(err)
		panic(err)
	}
}
