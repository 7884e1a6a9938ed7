package main

import (
	"flag"
	"log"
	"os"

	"github.com/go-git/go-billy/v5/osfs"

	"github.com/hubastard/grove/engine/core"
	glbackend "github.com/hubastard/grove/engine/gfx/gl"
	"github.com/hubastard/grove/engine/logx"
	"github.com/hubastard/grove/engine/platform"
)

type App struct {
	layer *Layer2D
}

func (a *App) OnStart(e *core.Engine) {
	a.layer = &Layer2D{}
	e.PushLayer(a.layer)
}

func (a *App) OnUpdate(e *core.Engine, dt float64)    {}
func (a *App) OnRender(e *core.Engine, alpha float64) {}
func (a *App) OnEvent(e *core.Engine, ev core.Event)  {}
func (a *App) OnShutdown(e *core.Engine) {
	s := e.Textures.Stats()
	logx.Logger().Info("texture cache", "entries", s.Entries, "hits", s.Hits, "loads", s.Loads, "reloads", s.Reloads)
}

func main() {
	cfgPath := flag.String("config", "sandbox.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := core.LoadConfig(osfs.New("."), *cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logx.SetLogger(cfg.Logger(os.Stderr))

	var win *platform.GLFWWindow
	newWindow := func(cfg core.Config) (core.Window, error) {
		w, err := platform.NewGLFWWindow(cfg, nil)
		if err != nil {
			return nil, err
		}
		win = w
		return w, nil
	}
	newRenderer := func(win core.Window, cfg core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(win, cfg)
	}

	err = core.Run(&App{}, cfg, newWindow, newRenderer)
	if win != nil {
		win.Destroy()
	}
	if err != nil {
		log.Fatal(err)
	}
}
