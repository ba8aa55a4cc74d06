package main

import (
	"fmt"
	"os"

	"github.com/cfoust/portals/pkg/config"
	"github.com/cfoust/portals/pkg/console"
	"github.com/cfoust/portals/pkg/demo"
)

func consoleCommand(configs []string, lines []string) error {
	cfg, err := config.Process(configs)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	scene := demo.New(cfg.Screen.Width, cfg.Screen.Height, cfg.Demo.Scene)
	renderer := newRenderer(cfg, scene, nil)
	renderer.Frame()

	commands, err := console.NewPortalConsole(renderer)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if err := commands.Run(os.Stdout, line); err != nil {
			return fmt.Errorf("%s: %w", line, err)
		}
	}
	return nil
}
