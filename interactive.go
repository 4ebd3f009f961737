package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	prompt "github.com/c-bata/go-prompt"
	lib "github.com/ccrippey/copic/lib"
	"github.com/urfave/cli/v2"
)

const background = "background"

func interactiveCommand() *cli.Command {
	cmd := &cli.Command{}
	cmd.Name = "interactive"
	cmd.Usage = "Interactively preview a single image on every monitor to " +
		"quickly iterate on fit and background settings."
	cmd.ArgsUsage = "FILE"

	cmd.Action = interactiveAction

	return cmd
}

func interactiveAction(c *cli.Context) error {
	requireArgs(c, "Missing input file")

	w, err := filepath.Abs(c.Args().First())
	checkErr(err)

	// Large buffered channel so it doesn't block signals if it's busy
	sigs := make(chan os.Signal, 100)
	promptChan := make(chan struct{}, 1)
	inputChan := make(chan string)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGHUP)

	go func() {
		promptUntilDone(w, inputChan)
		promptChan <- struct{}{}
	}()

	for {
		select {
		case <-promptChan:
			return nil
		case <-sigs:
			// We need to make sure we clean up, so consume sigint
			inputChan <- "exit"
		}
	}
}

func completer(d prompt.Document) []prompt.Suggest {
	s := []prompt.Suggest{
		{Text: "exit", Description: "Exit the program"},
		{Text: "print", Description: "Print the settings to be copied into" +
			" .properties.toml or the config file"},
		{Text: "render", Description: "Recompose and reapply the preview"},
		{Text: "reset", Description: "Reset all settings"},
		{Text: fit, Description: "Set the fit mode: zoom or stretch"},
		{Text: background, Description: "Set the background colour for" +
			" gaps between monitors"},
	}
	return prompt.FilterHasPrefix(s, d.TextBeforeCursor(), true)
}

type previewSettings struct {
	fit        string
	background string
}

func printSettings(s previewSettings) {
	if s.fit != "" {
		fmt.Printf("Fit = '%s'\n", s.fit)
	}

	if s.background != "" && s.background != "black" {
		fmt.Printf("Background = '%s'\n", s.background)
	}
}

func setFit(toSet *string) func(string, string) {
	return func(s, p string) {
		input := strings.TrimPrefix(s, p)
		if _, err := lib.ParseFitMode(input); err != nil {
			fmt.Printf("Invalid input \"%s\"\n", input)
			return
		}
		*toSet = input
	}
}

func setColour(toSet *string) func(string, string) {
	return func(s, p string) {
		input := strings.TrimPrefix(s, p)
		if _, err := lib.ParseColour(input); err != nil {
			fmt.Printf("Invalid input \"%s\"\n", input)
			return
		}
		*toSet = input
	}
}

// handleInput applies one lowercased command to the settings, reporting
// whether the preview needs recomposing and whether the loop is done.
func handleInput(in string, settings *previewSettings) (rerender, done bool) {
	if in == "exit" {
		return false, true
	}
	if in == "print" {
		printSettings(*settings)
		return false, false
	}
	if in == "render" {
		return true, false
	}
	if in == "reset" {
		*settings = previewSettings{}
		return true, false
	}

	executors := map[string]func(string, string){
		fit + " ":        setFit(&settings.fit),
		"f ":             setFit(&settings.fit),
		background + " ": setColour(&settings.background),
		"bg ":            setColour(&settings.background),
	}

	// Very naive, but adequate
	for s, e := range executors {
		if strings.HasPrefix(in, s) {
			e(in, s)
			return true, false
		}
	}

	fmt.Println("Unknown command")
	return false, false
}

func promptUntilDone(wallpaper string, inputChan chan string) {
	settings := previewSettings{}

	exit := prompt.OptionAddKeyBind(prompt.KeyBind{
		Key: prompt.ControlC,
		Fn: func(b *prompt.Buffer) {
			inputChan <- "exit"
		},
	})

	monitors, err := lib.GetMonitors()
	checkErr(err)

	if len(monitors) == 0 {
		log.Println("No monitors detected.")
		return
	}

	fmt.Println("Previewing...")
	interactivePreview(wallpaper, settings, monitors)

	for {
		go func() {
			// prompt.Input is blocking, synchronous, and provides no way to abort it
			inputChan <- strings.ToLower(prompt.Input("> ", completer, exit))
		}()
		in := <-inputChan

		rerender, done := handleInput(in, &settings)
		if done {
			return
		}
		if rerender {
			interactivePreview(wallpaper, settings, monitors)
		}
	}
}

func interactivePreview(
	w string, settings previewSettings, monitors []*lib.Monitor) {

	defer func() {
		r := recover()
		if r != nil {
			fmt.Println("Unexpected error: ", r)
		}
	}()

	conf, err := lib.GetConfig()
	checkErr(err)

	fitStr := settings.fit
	if fitStr == "" {
		fitStr = conf.DefaultFit
	}
	fitMode, err := lib.ParseFitMode(fitStr)
	checkErr(err)

	bgStr := settings.background
	if bgStr == "" {
		bgStr = conf.Background
	}
	bg, err := lib.ParseColour(bgStr)
	checkErr(err)

	paths := make([]lib.AbsolutePath, len(monitors))
	for i := range monitors {
		paths[i] = w
	}

	err = lib.AssignWallpapers(monitors, paths)
	checkErr(err)

	pairs, err := lib.LoadPairs(monitors)
	checkErr(err)

	canvas, err := lib.Compose(pairs, lib.ComposeOptions{
		Fit:        fitMode,
		Background: bg,
		Scaler:     conf.Scaler(),
	})
	checkErr(err)

	// Previews are ephemeral, Cleanup removes them on exit
	outFile, err := lib.NextTempFile()
	checkErr(err)

	err = lib.WriteImage(outFile, canvas)
	checkErr(err)

	err = lib.SetWallpaper(monitors, outFile)
	checkErr(err)
}
