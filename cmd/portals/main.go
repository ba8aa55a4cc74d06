package main

import (
	"fmt"
	"os"
	"time"

	"github.com/cfoust/portals/pkg/config"
	"github.com/cfoust/portals/pkg/version"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`

	Render struct {
		Configs []string `arg:"" optional:"" name:"configs" help:"Configuration files for the renderer." type:"file"`
		Frames  int      `help:"Number of frames to draw, overriding demo.frames." short:"n"`
		Scene   string   `help:"Demo scene to draw (facing, skybox, plane, horizon or all), overriding demo.scene."`
		Trace   string   `help:"Write a CBOR trace of every portal window to this file." type:"path"`
	} `cmd:"" help:"Draw frames of the demo scene and report what the portal renderer did."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`

	Console struct {
		Configs []string `help:"Configuration files for the renderer." type:"file" short:"c"`
		Lines   []string `arg:"" name:"lines" help:"Console commands to run after the first frame."`
	} `cmd:"" help:"Draw one frame of the demo scene, then run console commands against it."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("portals"),
		kong.Description("portal window compositor for a software renderer"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	if CLI.Version {
		fmt.Printf(
			"portals %s (commit %s)\n",
			version.Version,
			version.GitCommit,
		)
		fmt.Printf(
			"built %s\n",
			version.BuildTime,
		)
		os.Exit(0)
	}

	switch ctx.Command() {
	case "render":
		fallthrough
	case "render <configs>":
		err := renderCommand(CLI.Render.Configs)
		if err != nil {
			writeError(err)
		}
	case "config":
		os.Stdout.Write(config.DEFAULT)
	case "console <lines>":
		err := consoleCommand(CLI.Console.Configs, CLI.Console.Lines)
		if err != nil {
			writeError(err)
		}
	}
}
