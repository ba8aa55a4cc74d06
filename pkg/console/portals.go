// Package console implements the renderer's diagnostic commands and
// variables.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/cfoust/portals/pkg/portal"
	"github.com/cfoust/portals/pkg/render"
)

const (
	VarShowTainted = "showtainted"
	VarTaintLimit  = "portaltaint"
)

type Console struct {
	renderer  *render.Renderer
	commands  *CommandGroup[io.Writer]
	variables *Variables
}

func writeLine(w io.Writer, message string) {
	fmt.Fprintln(w, message)
}

func summary(p *portal.Portal) string {
	return fmt.Sprintf(
		"%d %s taint=%d overlay=%d",
		p.ID, p.Kind, p.Taint(), p.Overlay().Len(),
	)
}

func details(p *portal.Portal) string {
	switch p.Kind {
	case portal.KindPlane:
		params := portal.SurfaceRefs(p.Plane()).Resolve()
		return fmt.Sprintf("texture=%d height=%g light=%d", params.Texture, params.Height, params.Light)
	case portal.KindHorizon:
		horizon := p.Horizon()
		return fmt.Sprintf(
			"floor=%d ceiling=%d",
			horizon.Floor.Resolve().Texture,
			horizon.Ceiling.Resolve().Texture,
		)
	case portal.KindSkybox:
		camera := p.Camera()
		return fmt.Sprintf("camera=%s angle=%g", camera.Position(), camera.Angle().Degrees())
	case portal.KindLinked:
		link := p.Link()
		return fmt.Sprintf(
			"line=%d anchor=%d delta=%s regions=%d->%d z=%g",
			link.Marker, link.Anchor, link.Delta, link.FromRegion, link.ToRegion, link.PlaneZ,
		)
	}
	anchor := p.Anchor()
	return fmt.Sprintf("line=%d anchor=%d delta=%s", anchor.Marker, anchor.Anchor, anchor.Delta)
}

func (c *Console) find(id int) *portal.Portal {
	for _, p := range c.renderer.Registry().Portals() {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func NewPortalConsole(renderer *render.Renderer) (*Console, error) {
	c := &Console{
		renderer:  renderer,
		commands:  NewCommandGroup[io.Writer]("portal", writeLine),
		variables: NewVariables(),
	}

	c.variables.Define(VarShowTainted, IntRange{0, 0, 1}, func(value int) {
		renderer.SetShowTainted(value != 0)
	})
	c.variables.Define(VarTaintLimit, IntRange{1, render.DefaultTaintLimit, 64}, func(value int) {
		renderer.SetTaintLimit(value)
	})

	if renderer.ShowTainted() {
		if err := c.variables.Set(VarShowTainted, 1); err != nil {
			return nil, err
		}
	}
	if err := c.variables.Set(VarTaintLimit, renderer.TaintLimit()); err != nil {
		return nil, err
	}

	commands := []Command{
		{
			Name:        "untaint",
			Description: "clear every portal's render count",
			Callback: func(w io.Writer) {
				renderer.ResetTaint()
				c.commands.Message(w, "portal taint cleared")
			},
		},
		{
			Name:        "showtainted",
			ArgFormat:   "[on|off]",
			Description: "paint windows onto refused portals",
			Callback: func(w io.Writer, show *bool) error {
				if show != nil {
					value := 0
					if *show {
						value = 1
					}
					if err := c.variables.Set(VarShowTainted, value); err != nil {
						return err
					}
				}
				c.commands.Message(w, c.variables.Describe(VarShowTainted))
				return nil
			},
		},
		{
			Name:        "portaltaint",
			ArgFormat:   "[limit]",
			Description: "how many times a portal may be drawn per frame",
			Callback: func(w io.Writer, limit *int) error {
				if limit != nil {
					if err := c.variables.Set(VarTaintLimit, *limit); err != nil {
						return err
					}
				}
				c.commands.Message(w, c.variables.Describe(VarTaintLimit))
				return nil
			},
		},
		{
			Name:        "portals",
			Aliases:     []string{"list"},
			Description: "list the level's portals",
			Callback: func(w io.Writer) {
				for _, p := range renderer.Registry().Portals() {
					c.commands.Message(w, summary(p))
				}
			},
		},
		{
			Name:        "portalinfo",
			ArgFormat:   "<id>",
			Description: "describe one portal",
			Callback: func(w io.Writer, id int) error {
				p := c.find(id)
				if p == nil {
					return fmt.Errorf("no portal %d", id)
				}
				c.commands.Message(w, summary(p)+" "+details(p))
				return nil
			},
		},
		{
			Name:        "set",
			ArgFormat:   "<variable> <value>",
			Description: "change a variable",
			Callback: func(w io.Writer, name string, value string) error {
				if err := c.variables.SetString(name, value); err != nil {
					return err
				}
				c.commands.Message(w, c.variables.Describe(name))
				return nil
			},
		},
		{
			Name:        "vars",
			Description: "show every variable",
			Callback: func(w io.Writer) {
				for _, name := range c.variables.Names() {
					c.commands.Message(w, c.variables.Describe(name))
				}
			},
		},
		{
			Name:        "help",
			Description: "show this list",
			Callback: func(w io.Writer) {
				io.WriteString(w, c.commands.Help())
			},
		},
	}

	for _, command := range commands {
		if err := c.commands.Register(command); err != nil {
			return nil, fmt.Errorf("could not register %s: %w", command.Name, err)
		}
	}

	return c, nil
}

func (c *Console) Variables() *Variables { return c.variables }

// Run executes one console line, writing any output to w.
func (c *Console) Run(w io.Writer, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	return c.commands.Handle(w, args)
}
